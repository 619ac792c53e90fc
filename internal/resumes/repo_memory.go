package resumes

import (
	"context"
	"sort"
	"sync"

	"resume-analyzer/internal/analysis"
)

// MemoryRepo is an in-memory Repo. Records are deep-copied on the way in and
// out so callers never share state with the store.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

func (r *MemoryRepo) Insert(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[res.ID]; exists {
		return ErrDuplicateID
	}
	r.data[res.ID] = cloneResume(res)
	return nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Summary{}
	for _, res := range r.data {
		if res.OwnerID == ownerID {
			out = append(out, cloneResume(res).Summarize())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return cloneResume(res), nil
}

func cloneResume(r Resume) Resume {
	r.Analysis = cloneAnalysis(r.Analysis)
	return r
}

func cloneAnalysis(a analysis.Analysis) analysis.Analysis {
	a.Name = cloneString(a.Name)
	a.Email = cloneString(a.Email)
	a.Phone = cloneString(a.Phone)
	a.Summary = cloneString(a.Summary)
	if a.ResumeRating != nil {
		v := *a.ResumeRating
		a.ResumeRating = &v
	}
	a.Links = cloneSlice(a.Links)
	if a.Skills != nil {
		s := analysis.Skills{
			Technical: cloneSlice(a.Skills.Technical),
			Soft:      cloneSlice(a.Skills.Soft),
			Tools:     cloneSlice(a.Skills.Tools),
		}
		a.Skills = &s
	}
	if a.WorkExperience != nil {
		jobs := make([]analysis.Job, len(a.WorkExperience))
		for i, j := range a.WorkExperience {
			j.Responsibilities = cloneSlice(j.Responsibilities)
			jobs[i] = j
		}
		a.WorkExperience = jobs
	}
	a.Education = cloneSlice(a.Education)
	if a.Projects != nil {
		projects := make([]analysis.Project, len(a.Projects))
		for i, p := range a.Projects {
			p.Technologies = cloneSlice(p.Technologies)
			projects[i] = p
		}
		a.Projects = projects
	}
	a.ImprovementAreas = cloneSlice(a.ImprovementAreas)
	if a.UpskillSuggestions != nil {
		a.UpskillSuggestions = cloneValue(a.UpskillSuggestions).([]any)
	}
	return a
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// cloneSlice keeps nil and empty distinct.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
