package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lisadocs/internal/authz"
	"lisadocs/internal/facet"
	"lisadocs/internal/lifecycle"
	"lisadocs/internal/model"
	"lisadocs/internal/repository"
	repoMocks "lisadocs/internal/repository/mocks"
	"lisadocs/internal/storage"
	storeMocks "lisadocs/internal/storage/mocks"
	"lisadocs/internal/visibility"
)

// captureRecorder collects Record calls synchronously for assertions.
type captureRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (c *captureRecorder) Record(_, _, action string, _ map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions = append(c.actions, action)
}

func (c *captureRecorder) Close(context.Context) error { return nil }

func (c *captureRecorder) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.actions...)
}

type testEnv struct {
	docs     *repoMocks.MockDocumentRepository
	acts     *repoMocks.MockActivityRepository
	store    *storeMocks.MockStorage
	recorder *captureRecorder
	svc      DocumentService
}

func newTestEnv() *testEnv {
	resolver := authz.NewResolver(nil)
	env := &testEnv{
		docs:     new(repoMocks.MockDocumentRepository),
		acts:     new(repoMocks.MockActivityRepository),
		store:    new(storeMocks.MockStorage),
		recorder: &captureRecorder{},
	}
	env.svc = NewDocumentService(
		env.docs,
		env.acts,
		env.store,
		resolver,
		lifecycle.NewEngine(resolver, lifecycle.Policy{AllowArchivedRestore: true}),
		visibility.NewBuilder(resolver),
		env.recorder,
		facet.DefaultSchema(),
		15*time.Minute,
	)
	return env
}

var (
	adminP  = model.Principal{ID: "admin", Role: model.RoleAdministrador, Workspace: model.WorkspacePresidencia}
	secCAMP = model.Principal{ID: "sec-cam", Role: model.RoleSecretarioCAM, Workspace: model.WorkspaceCAM}
	cfP     = model.Principal{ID: "cf-1", Role: model.RoleCFMember, Workspace: model.WorkspaceComisionesCF}
)

func storedDoc(id, creator string, ws model.Workspace, status model.Status) *model.Document {
	now := time.Now().UTC()
	d := &model.Document{
		ID: id, Title: "Doc", Workspace: ws, Status: status, CreatedBy: creator,
		FileName: "doc.pdf", MimeType: "application/pdf", StorageKey: "documents/" + string(ws) + "/doc.pdf",
		CreatedAt: now, UpdatedAt: now,
	}
	if status == model.StatusStored || status == model.StatusArchived {
		d.StoredAt = &now
	}
	if status == model.StatusArchived {
		d.ArchivedAt = &now
	}
	return d
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path hashes content and stores draft", func(t *testing.T) {
		env := newTestEnv()
		r := strings.NewReader("hello world")

		env.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/cam/") && strings.HasSuffix(key, ".pdf")
		}), mock.Anything, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				// Drain so the tee feeds the hasher, as a real upload would.
				n, _ := io.Copy(io.Discard, r)
				return storage.ObjectInfo{Key: key, Size: n}
			}, nil)

		env.docs.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Status == model.StatusDraft &&
				doc.CreatedBy == "sec-cam" &&
				doc.FileHash == "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		})).Return(storedDoc("doc-1", "sec-cam", model.WorkspaceCAM, model.StatusDraft), nil)

		doc, err := env.svc.Upload(ctx, secCAMP, UploadInput{
			Title:       "Acta 12",
			Workspace:   model.WorkspaceCAM,
			Facets:      map[string]string{"categoria": "acta"},
			FileName:    "acta.pdf",
			ContentType: "application/pdf",
			Size:        11,
			Reader:      r,
		})

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, []string{model.ActionUploaded}, env.recorder.recorded())
		env.store.AssertExpectations(t)
		env.docs.AssertExpectations(t)
	})

	t.Run("cross-workspace create denied for secretary", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.Upload(ctx, secCAMP, UploadInput{
			Title:     "Informe",
			Workspace: model.WorkspaceAMPP,
			FileName:  "x.pdf",
			Reader:    strings.NewReader("x"),
		})

		assert.ErrorIs(t, err, ErrPermissionDenied)
		env.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("facet outside workspace vocabulary rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.Upload(ctx, secCAMP, UploadInput{
			Title:     "Acta",
			Workspace: model.WorkspaceCAM,
			Facets:    map[string]string{"categoria": "decreto"},
			FileName:  "x.pdf",
			Reader:    strings.NewReader("x"),
		})

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("db failure rolls back stored object", func(t *testing.T) {
		env := newTestEnv()
		r := strings.NewReader("hello")

		env.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		env.docs.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		env.store.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := env.svc.Upload(ctx, adminP, UploadInput{
			Title:     "Doc",
			Workspace: model.WorkspaceCAM,
			FileName:  "x.pdf",
			Size:      5,
			Reader:    r,
		})

		assert.ErrorContains(t, err, "db save failed: db fail")
		env.store.AssertExpectations(t)
	})

	t.Run("nil reader rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.Upload(ctx, adminP, UploadInput{Title: "Doc", Workspace: model.WorkspaceCAM})
		assert.ErrorIs(t, err, ErrReaderNil)
	})
}

func TestDocumentService_Get_Visibility(t *testing.T) {
	ctx := context.Background()

	t.Run("creator sees own draft", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusDraft), nil)

		doc, err := env.svc.Get(ctx, cfP, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
	})

	t.Run("another user's draft invisible even with workspace access", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "someone-else", model.WorkspaceComisionesCF, model.StatusDraft), nil)

		_, err := env.svc.Get(ctx, cfP, "doc-1")

		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("stored document visible via workspace access", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "someone-else", model.WorkspaceComisionesCF, model.StatusStored), nil)

		_, err := env.svc.Get(ctx, cfP, "doc-1")

		assert.NoError(t, err)
	})

	t.Run("lookup miss maps to not found", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := env.svc.Get(ctx, adminP, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	env.docs.On("Query", ctx, mock.Anything, repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.Document]{
			Items: []model.Document{*storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusStored)},
			Total: 1,
		}, nil)

	res, err := env.svc.List(ctx, cfP, visibility.Filter{}, 0, -1)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	// The strict policy must reach the repository: non-privileged listings
	// carry a visibility conjunct, never an unrestricted predicate.
	pred := env.docs.Calls[0].Arguments.Get(1).(visibility.Node)
	and, ok := pred.(visibility.And)
	require.True(t, ok)
	require.NotEmpty(t, and)
	_, isOr := and[0].(visibility.Or)
	assert.True(t, isOr)
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns and records download", func(t *testing.T) {
		env := newTestEnv()
		doc := storedDoc("doc-1", "someone-else", model.WorkspaceComisionesCF, model.StatusStored)
		env.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		env.store.On("PresignGet", ctx, doc.StorageKey, 15*time.Minute).
			Return("https://minio/presigned", nil)

		url, err := env.svc.Download(ctx, cfP, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://minio/presigned", url)
		assert.Equal(t, []string{model.ActionDownloaded}, env.recorder.recorded())
	})

	t.Run("invisible document not presigned", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "someone-else", model.WorkspaceCAM, model.StatusStored), nil)

		_, err := env.svc.Download(ctx, cfP, "doc-1")

		assert.ErrorIs(t, err, ErrPermissionDenied)
		env.store.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("draft to stored sets timestamp", func(t *testing.T) {
		env := newTestEnv()
		doc := storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusDraft)
		env.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		env.docs.On("TransitionStatus", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.Status == model.StatusStored && d.StoredAt != nil
		}), model.StatusDraft).Return(nil)

		got, err := env.svc.ChangeStatus(ctx, cfP, "doc-1", model.StatusStored, "ready")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusStored, got.Status)
		assert.Equal(t, []string{model.ActionStatusChanged}, env.recorder.recorded())
	})

	t.Run("back to draft clears timestamps", func(t *testing.T) {
		env := newTestEnv()
		doc := storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusStored)
		env.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		env.docs.On("TransitionStatus", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.Status == model.StatusDraft && d.StoredAt == nil && d.ArchivedAt == nil
		}), model.StatusStored).Return(nil)

		got, err := env.svc.ChangeStatus(ctx, cfP, "doc-1", model.StatusDraft, "rework")

		assert.NoError(t, err)
		assert.Nil(t, got.StoredAt)
		assert.Nil(t, got.ArchivedAt)
	})

	t.Run("non-creator without workspace mandate denied", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "someone-else", model.WorkspaceAMPP, model.StatusDraft), nil)

		_, err := env.svc.ChangeStatus(ctx, secCAMP, "doc-1", model.StatusStored, "")

		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("same status rejected as invalid transition", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusStored), nil)

		_, err := env.svc.ChangeStatus(ctx, cfP, "doc-1", model.StatusStored, "")

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("concurrent transition surfaces conflict", func(t *testing.T) {
		env := newTestEnv()
		doc := storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusDraft)
		env.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		env.docs.On("TransitionStatus", ctx, mock.Anything, model.StatusDraft).
			Return(repository.ErrConflict)

		_, err := env.svc.ChangeStatus(ctx, cfP, "doc-1", model.StatusStored, "")

		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestDocumentService_BulkArchive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	env.docs.On("FindByID", ctx, "doc-1").
		Return(storedDoc("doc-1", "x", model.WorkspacePresidencia, model.StatusStored), nil)
	env.docs.On("FindByID", ctx, "doc-2").
		Return(storedDoc("doc-2", "x", model.WorkspacePresidencia, model.StatusDraft), nil)
	env.docs.On("FindByID", ctx, "doc-3").
		Return(storedDoc("doc-3", "x", model.WorkspacePresidencia, model.StatusStored), nil)
	env.docs.On("TransitionStatus", ctx, mock.Anything, model.StatusStored).Return(nil)

	res, err := env.svc.BulkArchive(ctx, adminP, []string{"doc-1", "doc-2", "doc-3"})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Archived)
	assert.Equal(t, 1, res.Failed)
	if assert.Len(t, res.Errors, 1) {
		assert.Equal(t, "doc-2", res.Errors[0].DocumentID)
		assert.Contains(t, res.Errors[0].Error, "not in stored status")
	}
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing backing file does not block metadata delete", func(t *testing.T) {
		env := newTestEnv()
		doc := storedDoc("doc-1", "x", model.WorkspaceCAM, model.StatusStored)
		env.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		env.store.On("Delete", ctx, doc.StorageKey).Return(storage.ErrNotFound)
		env.docs.On("Delete", ctx, "doc-1").Return(nil)

		err := env.svc.Delete(ctx, adminP, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{model.ActionDeleted}, env.recorder.recorded())
		env.docs.AssertExpectations(t)
	})

	t.Run("other storage failures propagate and keep the row", func(t *testing.T) {
		env := newTestEnv()
		doc := storedDoc("doc-1", "x", model.WorkspaceCAM, model.StatusStored)
		env.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		env.store.On("Delete", ctx, doc.StorageKey).Return(errors.New("backend unavailable"))

		err := env.svc.Delete(ctx, adminP, "doc-1")

		assert.ErrorContains(t, err, "delete storage")
		env.docs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("creator cannot delete stored document", func(t *testing.T) {
		env := newTestEnv()
		env.docs.On("FindByID", ctx, "doc-1").
			Return(storedDoc("doc-1", "cf-1", model.WorkspaceComisionesCF, model.StatusStored), nil)

		err := env.svc.Delete(ctx, cfP, "doc-1")

		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestDocumentService_ListActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("audit capability required", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.ListActivity(ctx, cfP, "doc-1", 10, 0)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin reads the trail", func(t *testing.T) {
		env := newTestEnv()
		env.acts.On("ListByDocument", ctx, "doc-1", repository.PageQuery{Limit: 20, Offset: 0}).
			Return(&repository.PageResult[model.Activity]{Items: []model.Activity{}, Total: 0}, nil)

		_, err := env.svc.ListActivity(ctx, adminP, "doc-1", 0, 0)

		assert.NoError(t, err)
	})
}
