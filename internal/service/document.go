package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"lisadocs/internal/activity"
	"lisadocs/internal/authz"
	"lisadocs/internal/facet"
	"lisadocs/internal/lifecycle"
	"lisadocs/internal/model"
	"lisadocs/internal/repository"
	"lisadocs/internal/storage"
	"lisadocs/internal/visibility"
)

// UploadInput carries a new document's metadata and content stream.
type UploadInput struct {
	Title       string
	Description string
	Workspace   model.Workspace
	Facets      map[string]string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MetadataPatch carries the mutable metadata fields; nil means "leave as is".
type MetadataPatch struct {
	Title       *string
	Description *string
	Facets      map[string]string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// BulkError reports one failed item of a bulk operation.
type BulkError struct {
	DocumentID string `json:"document_id"`
	Error      string `json:"error"`
}

// BulkArchiveResult aggregates a bulk archive: the batch never aborts on a
// per-item failure.
type BulkArchiveResult struct {
	Archived int         `json:"archived"`
	Failed   int         `json:"failed"`
	Errors   []BulkError `json:"errors"`
}

// DocumentService defines the document use cases. Every operation takes the
// request principal explicitly; there is no ambient user.
type DocumentService interface {
	// Upload stores the content, saves a draft metadata row, and rolls back
	// the object if the row insert fails.
	Upload(ctx context.Context, p model.Principal, in UploadInput) (*model.Document, error)

	// Get returns a single document the principal may see.
	Get(ctx context.Context, p model.Principal, id string) (*model.Document, error)

	// List returns documents under the strict visibility policy: own
	// documents in any status plus stored documents in accessible workspaces.
	List(ctx context.Context, p model.Principal, f visibility.Filter, limit, offset int) (*DocumentListResult, error)

	// Download returns a presigned URL for the document's file bytes.
	Download(ctx context.Context, p model.Principal, id string) (string, error)

	// UpdateMetadata patches title/description/facets.
	UpdateMetadata(ctx context.Context, p model.Principal, id string, patch MetadataPatch) (*model.Document, error)

	// ChangeStatus runs the permission gate, applies the transition with a
	// conditional write, and records the change.
	ChangeStatus(ctx context.Context, p model.Principal, id string, next model.Status, reason string) (*model.Document, error)

	// BulkArchive archives each listed document, continuing past failures.
	BulkArchive(ctx context.Context, p model.Principal, ids []string) (*BulkArchiveResult, error)

	// Delete removes the backing file (fail-open when already missing) and
	// then the metadata row.
	Delete(ctx context.Context, p model.Principal, id string) error

	// ListActivity returns a document's audit trail.
	ListActivity(ctx context.Context, p model.Principal, documentID string, limit, offset int) (*repository.PageResult[model.Activity], error)
}

// documentService is the concrete orchestrator over persistence, storage,
// authorization and lifecycle collaborators.
type documentService struct {
	docs       repository.DocumentRepository
	activities repository.ActivityRepository
	store      storage.Storage
	resolver   *authz.Resolver
	engine     *lifecycle.Engine
	vis        *visibility.Builder
	recorder   activity.Recorder
	schema     facet.Schema
	presignTTL time.Duration
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(
	docs repository.DocumentRepository,
	activities repository.ActivityRepository,
	store storage.Storage,
	resolver *authz.Resolver,
	engine *lifecycle.Engine,
	vis *visibility.Builder,
	recorder activity.Recorder,
	schema facet.Schema,
	presignTTL time.Duration,
) DocumentService {
	return &documentService{
		docs:       docs,
		activities: activities,
		store:      store,
		resolver:   resolver,
		engine:     engine,
		vis:        vis,
		recorder:   recorder,
		schema:     schema,
		presignTTL: presignTTL,
	}
}

func denied(reason string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
}

// hasToken reports whether a resolved permission list carries tok.
func hasToken(perms []string, tok string) bool {
	for _, p := range perms {
		if p == tok {
			return true
		}
	}
	return false
}

// canSee applies the strict per-document visibility rule, mirroring the
// listing policy: admins and executives see everything, creators see their
// own, everyone else sees only stored documents in accessible workspaces.
func (s *documentService) canSee(p model.Principal, doc *model.Document) bool {
	if p.Role == model.RoleAdministrador || p.Role.IsExecutive() {
		return true
	}
	if doc.CreatedBy == p.ID {
		return true
	}
	if doc.Status != model.StatusStored {
		return false
	}
	return s.resolver.Resolve(p, doc.Workspace).HasAccess
}

func (s *documentService) Upload(ctx context.Context, p model.Principal, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.Workspace.Valid() {
		return nil, fmt.Errorf("%w: unknown workspace %q", ErrValidation, in.Workspace)
	}
	if err := s.schema.Validate(in.Workspace, in.Facets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !authz.Derive(p.Role).Documents.Create {
		return nil, denied("role cannot create documents")
	}
	access := s.resolver.Resolve(p, in.Workspace)
	if !access.HasAccess {
		return nil, denied(access.Reason)
	}
	if !hasToken(access.Permissions, authz.PermCreate) && !hasToken(access.Permissions, authz.PermWrite) {
		return nil, denied("no create permission in workspace " + string(in.Workspace))
	}

	// Hash while streaming to storage; no buffering of the full file.
	hasher := sha256.New()
	tee := io.TeeReader(in.Reader, hasher)

	ext := filepath.Ext(in.FileName)
	key := filepath.ToSlash(filepath.Join("documents", string(in.Workspace), uuid.NewString()+ext))

	objInfo, err := s.store.Put(ctx, key, tee, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
			"uploaded-by":       p.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Workspace:   in.Workspace,
		Status:      model.StatusDraft,
		Facets:      in.Facets,
		CreatedBy:   p.ID,
		FileName:    in.FileName,
		FileSize:    objInfo.Size,
		MimeType:    in.ContentType,
		FileHash:    hex.EncodeToString(hasher.Sum(nil)),
		StorageKey:  objInfo.Key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.recorder.Record(stored.ID, p.ID, model.ActionUploaded, map[string]any{
		"workspace": stored.Workspace,
		"file_name": stored.FileName,
	})
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, p model.Principal, id string) (*model.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canSee(p, doc) {
		return nil, denied("document is not visible to this user")
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, p model.Principal, f visibility.Filter, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	pred := s.vis.StrictPredicate(p, f)
	res, err := s.docs.Query(ctx, pred, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Download(ctx context.Context, p model.Principal, id string) (string, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	if !s.canSee(p, doc) {
		return "", denied("document is not visible to this user")
	}
	if !authz.Derive(p.Role).Documents.Download {
		return "", denied("role cannot download documents")
	}

	url, err := s.store.PresignGet(ctx, doc.StorageKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}

	s.recorder.Record(doc.ID, p.ID, model.ActionDownloaded, map[string]any{
		"file_name": doc.FileName,
	})
	return url, nil
}

func (s *documentService) UpdateMetadata(ctx context.Context, p model.Principal, id string, patch MetadataPatch) (*model.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.Derive(p.Role).Documents.Update {
		return nil, denied("role cannot update documents")
	}
	if p.Role != model.RoleAdministrador && doc.CreatedBy != p.ID {
		access := s.resolver.Resolve(p, doc.Workspace)
		if !access.HasAccess {
			return nil, denied(access.Reason)
		}
		if !hasToken(access.Permissions, authz.PermUpdate) && !hasToken(access.Permissions, authz.PermWrite) {
			return nil, denied("no update permission in workspace " + string(doc.Workspace))
		}
	}

	changed := map[string]any{}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		doc.Title = *patch.Title
		changed["title"] = *patch.Title
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
		changed["description"] = *patch.Description
	}
	if patch.Facets != nil {
		if err := s.schema.Validate(doc.Workspace, patch.Facets); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		doc.Facets = patch.Facets
		changed["facets"] = patch.Facets
	}
	doc.UpdatedAt = time.Now().UTC()

	updated, err := s.docs.UpdateMetadata(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(updated.ID, p.ID, model.ActionUpdated, changed)
	return updated, nil
}

func (s *documentService) ChangeStatus(ctx context.Context, p model.Principal, id string, next model.Status, reason string) (*model.Document, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status == next {
		return nil, fmt.Errorf("%w: document already has status %s", ErrInvalidTransition, next)
	}

	// The permission gate is the single authoritative transition policy.
	if d := s.engine.CanChangeStatus(p, doc, next); !d.Allowed {
		return nil, denied(d.Reason)
	}

	previous := doc.Status
	s.engine.ApplyTransition(doc, next, time.Now().UTC())

	if err := s.docs.TransitionStatus(ctx, doc, previous); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.recorder.Record(doc.ID, p.ID, model.ActionStatusChanged, map[string]any{
		"previous_status": previous,
		"new_status":      next,
		"reason":          reason,
		"timestamp":       doc.UpdatedAt,
	})
	return doc, nil
}

func (s *documentService) BulkArchive(ctx context.Context, p model.Principal, ids []string) (*BulkArchiveResult, error) {
	res := &BulkArchiveResult{Errors: []BulkError{}}
	for _, id := range ids {
		if err := s.archiveOne(ctx, p, id); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, BulkError{DocumentID: id, Error: err.Error()})
			continue
		}
		res.Archived++
	}
	return res, nil
}

// archiveOne enforces the canonical table at this front door: only stored
// documents are eligible for bulk archival.
func (s *documentService) archiveOne(ctx context.Context, p model.Principal, id string) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if d := s.engine.CanChangeStatus(p, doc, model.StatusArchived); !d.Allowed {
		return denied(d.Reason)
	}
	if !s.engine.CanonicalAllowed(doc.Status, model.StatusArchived) {
		return fmt.Errorf("%w: document is not in stored status", ErrInvalidTransition)
	}

	previous := doc.Status
	s.engine.ApplyTransition(doc, model.StatusArchived, time.Now().UTC())
	if err := s.docs.TransitionStatus(ctx, doc, previous); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrConflict
		}
		return err
	}

	s.recorder.Record(doc.ID, p.ID, model.ActionStatusChanged, map[string]any{
		"previous_status": previous,
		"new_status":      model.StatusArchived,
		"reason":          "bulk archive",
		"timestamp":       doc.UpdatedAt,
	})
	return nil
}

func (s *documentService) Delete(ctx context.Context, p model.Principal, id string) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if d := s.engine.CanDelete(p, doc); !d.Allowed {
		return denied(d.Reason)
	}

	// Remove the backing file first. A file that is already gone must not
	// block metadata deletion; any other storage failure does.
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(doc.ID, p.ID, model.ActionDeleted, map[string]any{
		"workspace": doc.Workspace,
		"file_name": doc.FileName,
		"status":    doc.Status,
	})
	return nil
}

func (s *documentService) ListActivity(ctx context.Context, p model.Principal, documentID string, limit, offset int) (*repository.PageResult[model.Activity], error) {
	if !authz.Derive(p.Role).Admin.ViewAuditLogs {
		return nil, denied("role cannot view audit logs")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.activities.ListByDocument(ctx, documentID, repository.PageQuery{Limit: limit, Offset: offset})
}

// find loads a document, translating the lookup miss.
func (s *documentService) find(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}
