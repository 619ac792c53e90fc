package resumes

import (
	"time"

	"resume-analyzer/internal/analysis"
)

// Resume is one analysed upload. It is written once and never updated.
type Resume struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	StorageKey string    `json:"-"`
	analysis.Analysis
}

// Summary is the listing view of a Resume.
type Summary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Name       *string   `json:"name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
}

// Summarize returns the listing view of r.
func (r Resume) Summarize() Summary {
	return Summary{
		ID:         r.ID,
		FileName:   r.FileName,
		UploadedAt: r.UploadedAt,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
	}
}
