package handler

import (
	"crypto/subtle"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
)

// TokenIssuer signs a token naming an authenticated user.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

// LoginHandler implements the shared-secret demo login flow. Deployments
// fronted by a real identity provider do not register it.
type LoginHandler struct {
	users    repository.UserRepository
	issuer   TokenIssuer
	password string
}

// NewLoginHandler constructs a LoginHandler. Returns nil when password is
// empty, which keeps the endpoint unregistered.
func NewLoginHandler(users repository.UserRepository, issuer TokenIssuer, password string) *LoginHandler {
	if password == "" {
		return nil
	}
	return &LoginHandler{users: users, issuer: issuer, password: password}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Handle processes POST /auth/login. Bad credentials and unknown or inactive
// accounts all produce the same 401.
func (h *LoginHandler) Handle(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := req.validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	}

	u, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	if u == nil || !u.IsActive {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(loginResponse{Token: token, User: u})
}
