package resumes

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo stores resumes in Postgres. List and object fields live in JSONB
// columns; SQL NULL stands for an absent field.
type PGRepo struct {
	DB *sql.DB
}

const uniqueViolation = "23505"

const resumeColumns = `id, owner_id, file_name, uploaded_at, storage_key, name, email, phone, summary,
  links, skills, work_experience, education, projects, resume_rating, improvement_areas, upskill_suggestions`

func (r *PGRepo) Insert(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (` + resumeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	a := res.Analysis
	jsonArgs := make([]any, 0, 7)
	for _, v := range []any{a.Links, a.Skills, a.WorkExperience, a.Education, a.Projects} {
		arg, err := nullableJSON(v)
		if err != nil {
			return err
		}
		jsonArgs = append(jsonArgs, arg)
	}
	improvement, err := nullableJSON(a.ImprovementAreas)
	if err != nil {
		return err
	}
	upskill, err := nullableJSON(a.UpskillSuggestions)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.OwnerID,
		res.FileName,
		res.UploadedAt,
		nullableString(res.StorageKey),
		a.Name,
		a.Email,
		a.Phone,
		a.Summary,
		jsonArgs[0],
		jsonArgs[1],
		jsonArgs[2],
		jsonArgs[3],
		jsonArgs[4],
		a.ResumeRating,
		improvement,
		upskill,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateID
	}
	return err
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Summary, error) {
	const query = `
SELECT id, file_name, uploaded_at, name, email, phone
FROM resumes
WHERE owner_id = $1
ORDER BY uploaded_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			s                  Summary
			name, email, phone sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.FileName, &s.UploadedAt, &name, &email, &phone); err != nil {
			return nil, err
		}
		s.UploadedAt = s.UploadedAt.UTC()
		s.Name = stringPtr(name)
		s.Email = stringPtr(email)
		s.Phone = stringPtr(phone)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	var (
		res                         Resume
		storageKey                  sql.NullString
		name, email, phone, summary sql.NullString
		rating                      sql.NullInt64
		links, skills, work         []byte
		education, projects         []byte
		improvement, upskill        []byte
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.OwnerID,
		&res.FileName,
		&res.UploadedAt,
		&storageKey,
		&name,
		&email,
		&phone,
		&summary,
		&links,
		&skills,
		&work,
		&education,
		&projects,
		&rating,
		&improvement,
		&upskill,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	res.UploadedAt = res.UploadedAt.UTC()
	res.StorageKey = storageKey.String
	res.Name = stringPtr(name)
	res.Email = stringPtr(email)
	res.Phone = stringPtr(phone)
	res.Summary = stringPtr(summary)
	if rating.Valid {
		v := int(rating.Int64)
		res.ResumeRating = &v
	}

	decoders := []struct {
		column string
		raw    []byte
		dst    any
	}{
		{"links", links, &res.Links},
		{"skills", skills, &res.Skills},
		{"work_experience", work, &res.WorkExperience},
		{"education", education, &res.Education},
		{"projects", projects, &res.Projects},
		{"improvement_areas", improvement, &res.ImprovementAreas},
		{"upskill_suggestions", upskill, &res.UpskillSuggestions},
	}
	for _, d := range decoders {
		if err := decodeJSONB(d.raw, d.dst); err != nil {
			return Resume{}, fmt.Errorf("decode %s: %w", d.column, err)
		}
	}
	return res, nil
}

// nullableJSON stores nil slices and pointers as SQL NULL so absent and
// empty stay distinct across a round-trip.
func nullableJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	return string(raw), nil
}

func decodeJSONB(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
