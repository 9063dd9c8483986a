package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
	"lisadocs/internal/visibility"
)

var docColumns = []string{
	"id", "title", "description", "workspace", "status", "facets", "created_by",
	"file_name", "file_size", "mime_type", "file_hash", "storage_key",
	"created_at", "updated_at", "stored_at", "archived_at",
}

func docRow(id string, status model.Status) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(docColumns).AddRow(
		id, "Acta 12", "", model.WorkspaceCAM, status, []byte(`{"categoria":"acta"}`), "user-1",
		"acta12.pdf", int64(2048), "application/pdf", "abc123", "documents/cam/acta12.pdf",
		now, now, nil, nil,
	)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:         "doc-1",
		Title:      "Acta 12",
		Workspace:  model.WorkspaceCAM,
		Status:     model.StatusDraft,
		Facets:     map[string]string{"categoria": "acta"},
		CreatedBy:  "user-1",
		FileName:   "acta12.pdf",
		FileSize:   2048,
		MimeType:   "application/pdf",
		FileHash:   "abc123",
		StorageKey: "documents/cam/acta12.pdf",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WillReturnRows(docRow("doc-1", model.StatusDraft))

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "doc-1", result.ID)
	assert.Equal(t, "acta", result.Facets["categoria"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
		WithArgs("doc-1").
		WillReturnRows(docRow("doc-1", model.StatusStored))

	doc, err := repo.FindByID(ctx, "doc-1")

	assert.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, model.StatusStored, doc.Status)
}

func TestDocumentPostgres_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	doc := &model.Document{ID: "doc-1", Status: model.StatusStored, StoredAt: &now, UpdatedAt: now}

	t.Run("conditional write succeeds", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs("doc-1", model.StatusStored, doc.StoredAt, nil, now, model.StatusDraft).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.TransitionStatus(ctx, doc, model.StatusDraft))
	})

	t.Run("stale expected status reports conflict", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs("doc-1", model.StatusStored, doc.StoredAt, nil, now, model.StatusDraft).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TransitionStatus(ctx, doc, model.StatusDraft)
		assert.ErrorIs(t, err, repository.ErrConflict)
	})
}

func TestDocumentPostgres_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	pred := visibility.And{
		visibility.Or{
			visibility.Eq("created_by", "user-1"),
			visibility.In("workspace", []any{model.WorkspaceCAM}),
		},
	}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE").
		WithArgs("user-1", model.WorkspaceCAM).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM documents\\s+WHERE (.+) ORDER BY").
		WithArgs("user-1", model.WorkspaceCAM, 10, 0).
		WillReturnRows(docRow("doc-1", model.StatusStored))

	res, err := repo.Query(ctx, pred, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "doc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_CountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM documents GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("draft", 3).
			AddRow("stored", 7))

	got, err := repo.CountByStatus(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, map[model.Status]int{model.StatusDraft: 3, model.StatusStored: 7}, got)
}
