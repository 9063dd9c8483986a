package handler

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lisadocs/internal/model"
	"lisadocs/internal/service"
)

type userHandler struct {
	svc service.UserService
}

func newUserHandler(svc service.UserService) *userHandler {
	return &userHandler{svc: svc}
}

// createUserRequest carries a new account. Role/workspace compatibility is
// checked by the service, not here.
type createUserRequest struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	Workspace string `json:"workspace"`
}

func (r createUserRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Role, validation.Required),
		validation.Field(&r.Workspace, validation.Required),
	)
}

func (h *userHandler) create(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}

	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := req.validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	u, err := h.svc.Create(c.UserContext(), p, service.CreateUserInput{
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      model.Role(req.Role),
		Workspace: model.Workspace(req.Workspace),
	})
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *userHandler) list(c *fiber.Ctx) error {
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

	res, err := h.svc.List(c.UserContext(), p, limit, offset)
	if err != nil {
		return translateServiceError(c, err)
	}
	return c.JSON(res)
}

func (h *userHandler) deactivate(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	if err := h.svc.Deactivate(c.UserContext(), p, id); err != nil {
		return translateServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
