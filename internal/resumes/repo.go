package resumes

import "context"

// Repo persists analysed resumes.
type Repo interface {
	Insert(ctx context.Context, r Resume) error
	// ListByOwner returns summaries newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Summary, error)
	GetByID(ctx context.Context, id string) (Resume, error)
}
