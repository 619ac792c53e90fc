package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	got := NewService(nil).Status(context.Background())
	if !got.OK || got.Database != DatabaseDisabled {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	if got := NewService(db).Status(context.Background()); !got.OK || got.Database != DatabaseUp {
		t.Fatalf("expected up, got %+v", got)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if got := NewService(db).Status(context.Background()); got.OK || got.Database != DatabaseDown {
		t.Fatalf("expected down, got %+v", got)
	}
}
