package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lisadocs/internal/model"
	"lisadocs/internal/service"
	"lisadocs/internal/visibility"
)

type documentHandler struct {
	svc service.DocumentService
}

func newDocumentHandler(svc service.DocumentService) *documentHandler {
	return &documentHandler{svc: svc}
}

// uploadRequest carries the multipart form fields next to the file part.
type uploadRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Workspace   string `form:"workspace"`
	// Facets is a JSON object of facet key/value pairs.
	Facets string `form:"facets"`
}

func (r uploadRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Workspace, validation.Required),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// upload handles POST /documents (multipart/form-data, field name: file).
func (h *documentHandler) upload(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}

	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse form fields")
	}
	if err := req.validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	var facets map[string]string
	if req.Facets != "" {
		if err := json.Unmarshal([]byte(req.Facets), &facets); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FACETS", "facets must be a JSON object of strings")
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	doc, err := h.svc.Upload(c.UserContext(), p, service.UploadInput{
		Title:       req.Title,
		Description: req.Description,
		Workspace:   model.Workspace(req.Workspace),
		Facets:      facets,
		FileName:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// list handles GET /documents. Facet filters use facet.<key>=<value> query
// parameters; the visibility predicate is applied server-side regardless of
// what the client asks for.
func (h *documentHandler) list(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}

	var f visibility.Filter
	if ws := c.Query("workspace"); ws != "" {
		w := model.Workspace(ws)
		if !w.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_WORKSPACE", "unknown workspace")
		}
		f.Workspace = &w
	}
	if st := c.Query("status"); st != "" {
		s := model.Status(st)
		if !s.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown status")
		}
		f.Status = &s
	}
	f.Search = c.Query("search")
	for k, v := range c.Queries() {
		if key, ok := strings.CutPrefix(k, "facet."); ok && v != "" {
			if f.Facets == nil {
				f.Facets = map[string]string{}
			}
			f.Facets[key] = v
		}
	}

	res, err := h.svc.List(c.UserContext(), p, f, limit, offset)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(res)
}

func (h *documentHandler) get(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id, err := documentID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	doc, err := h.svc.Get(c.UserContext(), p, id)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(doc)
}

func (h *documentHandler) download(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id, err := documentID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	url, err := h.svc.Download(c.UserContext(), p, id)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(fiber.Map{"download_url": url})
}

// updateMetadataRequest patches title/description/facets; nil means keep.
type updateMetadataRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Facets      map[string]string `json:"facets"`
}

func (r updateMetadataRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

func (h *documentHandler) updateMetadata(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id, err := documentID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	var req updateMetadataRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := req.validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	doc, err := h.svc.UpdateMetadata(c.UserContext(), p, id, service.MetadataPatch{
		Title:       req.Title,
		Description: req.Description,
		Facets:      req.Facets,
	})
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(doc)
}

// changeStatusRequest names the target status and an optional reason kept in
// the audit trail.
type changeStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (r changeStatusRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

func (h *documentHandler) changeStatus(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id, err := documentID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	var req changeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := req.validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	doc, err := h.svc.ChangeStatus(c.UserContext(), p, id, model.Status(req.Status), req.Reason)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(doc)
}

// bulkArchiveRequest lists the documents to archive in one call.
type bulkArchiveRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

func (r bulkArchiveRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DocumentIDs, validation.Required, validation.Length(1, 100)),
	)
}

func (h *documentHandler) bulkArchive(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}

	var req bulkArchiveRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := req.validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	res, err := h.svc.BulkArchive(c.UserContext(), p, req.DocumentIDs)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(res)
}

func (h *documentHandler) delete(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id, err := documentID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	if err := h.svc.Delete(c.UserContext(), p, id); err != nil {
		return translateServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *documentHandler) listActivity(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id, err := documentID(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}

	res, err := h.svc.ListActivity(c.UserContext(), p, id, limit, offset)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(res)
}

// documentID validates the :id path parameter.
func documentID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}
