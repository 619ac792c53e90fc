package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce builds an Analysis from decoded fields. It never fails: values of
// the wrong shape degrade to absent rather than aborting the record.
func Coerce(f Fields) Analysis {
	return Analysis{
		Name:               optString(f[KeyName]),
		Email:              optString(f[KeyEmail]),
		Phone:              optString(f[KeyPhone]),
		Summary:            optString(f[KeySummary]),
		Links:              coerceLinks(f[KeyLinks]),
		Skills:             coerceSkills(f[KeySkills]),
		WorkExperience:     coerceJobs(f[KeyWorkExperience]),
		Education:          coerceEducation(f[KeyEducation]),
		Projects:           coerceProjects(f[KeyProjects]),
		ResumeRating:       coerceRating(f[KeyResumeRating]),
		ImprovementAreas:   stringList(f[KeyImprovementAreas]),
		UpskillSuggestions: coerceSuggestions(f[KeyUpskillSuggestions]),
	}
}

// scalarString renders strings, numbers and booleans. Objects, arrays and
// null are not representable as a single string.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func optString(v any) *string {
	s, ok := scalarString(v)
	if !ok {
		return nil
	}
	return &s
}

func plainString(v any) string {
	s, _ := scalarString(v)
	return s
}

// stringList accepts a list of scalars or a bare scalar.
func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := scalarString(v); ok {
			return []string{s}
		}
		return nil
	}
}

// objectList returns the object items of a list, or a one-element list
// when a single object was returned instead of a list.
func objectList(v any) ([]map[string]any, bool) {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out, true
	case map[string]any:
		return []map[string]any{t}, true
	default:
		return nil, false
	}
}

func coerceLinks(v any) []Link {
	items, ok := v.([]any)
	if !ok {
		if obj, isObj := v.(map[string]any); isObj {
			items = []any{obj}
		} else {
			return nil
		}
	}
	out := make([]Link, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				out = append(out, Link{URL: t})
			}
		case map[string]any:
			link := Link{Label: plainString(t["label"]), URL: plainString(t["url"])}
			if link.Label != "" || link.URL != "" {
				out = append(out, link)
			}
		}
	}
	return out
}

func coerceSkills(v any) *Skills {
	switch t := v.(type) {
	case map[string]any:
		return &Skills{
			Technical: stringList(t["technical"]),
			Soft:      stringList(t["soft"]),
			Tools:     stringList(t["tools"]),
		}
	case []any:
		return &Skills{Technical: stringList(t)}
	default:
		return nil
	}
}

func coerceJobs(v any) []Job {
	objs, ok := objectList(v)
	if !ok {
		return nil
	}
	out := make([]Job, 0, len(objs))
	for _, o := range objs {
		out = append(out, Job{
			Company:          plainString(o["company"]),
			Role:             plainString(o["role"]),
			Dates:            plainString(o["dates"]),
			Responsibilities: stringList(o["responsibilities"]),
		})
	}
	return out
}

func coerceEducation(v any) []Education {
	objs, ok := objectList(v)
	if !ok {
		return nil
	}
	out := make([]Education, 0, len(objs))
	for _, o := range objs {
		out = append(out, Education{
			Institution: plainString(o["institution"]),
			Degree:      plainString(o["degree"]),
			Year:        plainString(o["year"]),
		})
	}
	return out
}

func coerceProjects(v any) []Project {
	objs, ok := objectList(v)
	if !ok {
		return nil
	}
	out := make([]Project, 0, len(objs))
	for _, o := range objs {
		out = append(out, Project{
			Name:         plainString(o["name"]),
			Description:  plainString(o["description"]),
			Technologies: stringList(o["technologies"]),
		})
	}
	return out
}

// coerceRating accepts integers, rounds fractional numbers and parses numeric
// strings such as "8" or "8/10". The value is not clamped.
func coerceRating(v any) *int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return intPtr(n)
		}
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if before, _, found := strings.Cut(s, "/"); found {
			s = strings.TrimSpace(before)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	return intPtr(int64(math.Round(f)))
}

func intPtr(n int64) *int {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil
	}
	i := int(n)
	return &i
}

func coerceSuggestions(v any) []any {
	switch t := v.(type) {
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item != nil {
				out = append(out, item)
			}
		}
		return out
	case string, map[string]any:
		return []any{t}
	default:
		return nil
	}
}
