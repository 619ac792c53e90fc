package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"resume-analyzer/internal/analysis"
)

func sampleResume() Resume {
	name := "Ada"
	rating := 8
	return Resume{
		ID:         "9f1c2d3e-4b5a-4c6d-8e7f-001122334455",
		OwnerID:    ownerA,
		FileName:   "ada.pdf",
		UploadedAt: time.Date(2024, 3, 1, 10, 0, 0, 123000, time.UTC),
		StorageKey: "abc/9f1c_ada.pdf",
		Analysis: analysis.Analysis{
			Name:               &name,
			Links:              []analysis.Link{{Label: "GitHub", URL: "https://github.com/ada"}},
			Skills:             &analysis.Skills{Technical: []string{"Math"}, Soft: []string{}},
			Education:          []analysis.Education{},
			ResumeRating:       &rating,
			UpskillSuggestions: []any{"Go", map[string]any{"skill": "SQL", "weeks": json.Number("4")}},
		},
	}
}

func TestPGRepoInsertStoresNullForAbsentFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	res := sampleResume()
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			res.ID,
			res.OwnerID,
			res.FileName,
			res.UploadedAt,
			res.StorageKey,
			"Ada",
			nil, // email
			nil, // phone
			nil, // summary
			`[{"label":"GitHub","url":"https://github.com/ada"}]`,
			`{"technical":["Math"],"soft":[],"tools":null}`,
			nil, // work_experience
			`[]`,
			nil, // projects
			int64(8),
			nil, // improvement_areas
			`["Go",{"skill":"SQL","weeks":4}]`,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Insert(context.Background(), res); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoInsertDuplicateID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO resumes").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_pkey"})

	repo := &PGRepo{DB: db}
	err = repo.Insert(context.Background(), sampleResume())
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Fatalf("duplicate id must not read as invalid input: %v", err)
	}
}

func TestPGRepoGetByIDRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	want := sampleResume()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "file_name", "uploaded_at", "storage_key", "name", "email", "phone", "summary",
		"links", "skills", "work_experience", "education", "projects", "resume_rating", "improvement_areas", "upskill_suggestions",
	}).AddRow(
		want.ID, want.OwnerID, want.FileName, want.UploadedAt, want.StorageKey, "Ada", nil, nil, nil,
		[]byte(`[{"label":"GitHub","url":"https://github.com/ada"}]`),
		[]byte(`{"technical":["Math"],"soft":[],"tools":null}`),
		nil,
		[]byte(`[]`),
		nil,
		int64(8),
		nil,
		[]byte(`["Go",{"skill":"SQL","weeks":4}]`),
	)
	mock.ExpectQuery("SELECT (.+) FROM resumes").WithArgs(want.ID).WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", gotJSON, wantJSON)
	}
	if got.StorageKey != want.StorageKey {
		t.Fatalf("storage key = %q, want %q", got.StorageKey, want.StorageKey)
	}
	if got.Education == nil || got.WorkExperience != nil {
		t.Fatalf("empty and absent lists must stay distinct: education=%#v work=%#v", got.Education, got.WorkExperience)
	}
	if n, ok := got.UpskillSuggestions[1].(map[string]any)["weeks"].(json.Number); !ok || n != "4" {
		t.Fatalf("numbers should decode as json.Number, got %#v", got.UpskillSuggestions[1])
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM resumes").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	newer := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "file_name", "uploaded_at", "name", "email", "phone"}).
		AddRow("id-2", "b.pdf", newer, "Ada", "ada@example.com", nil).
		AddRow("id-1", "a.pdf", older, nil, nil, nil)
	mock.ExpectQuery("SELECT id, file_name, uploaded_at, name, email, phone FROM resumes WHERE owner_id = \\$1 ORDER BY uploaded_at DESC").
		WithArgs(ownerA).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 2 || got[0].ID != "id-2" || got[1].ID != "id-1" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Name == nil || *got[0].Name != "Ada" || got[0].Phone != nil {
		t.Fatalf("unexpected summary: %+v", got[0])
	}
	if got[1].Name != nil {
		t.Fatalf("expected nil name, got %v", *got[1].Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByOwnerEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_name", "uploaded_at", "name", "email", "phone"}))

	repo := &PGRepo{DB: db}
	got, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}
