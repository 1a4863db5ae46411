package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipes-backend/internal/domain"
	"github.com/tbourn/go-recipes-backend/internal/http/middleware"
	"github.com/tbourn/go-recipes-backend/internal/services"
)

//
// DTOs
//

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	// Unique display name, also the token subject
	Username string `json:"username" binding:"required,min=2,max=64" example:"alice"`
	// Login email, unique across accounts
	Email string `json:"email" binding:"required,email" example:"alice@example.com"`
	// Plaintext password, stored only as a bcrypt hash
	Password string `json:"password" binding:"required,min=8,max=72" example:"correct horse battery"`
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery"`
}

// UserResponse is the public shape of an account. Password hashes never
// leave the service layer.
type UserResponse struct {
	ID       string `json:"id" example:"recUsr123"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

// LoginResponse carries the signed token together with the account.
type LoginResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

//
// Endpoints
//

// Register creates a new account.
//
// @ID           Register
// @Summary      Register a new account
// @Description  Creates an account with a unique username and email. The
// @Description  password is hashed before storage and never returned.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      RegisterRequest  true  "Account details"
// @Success      201      {object}  UserResponse
// @Failure      400      {object}  ErrorResponse "Validation error"
// @Failure      409      {object}  ErrorResponse "Email or username already taken"
// @Failure      500      {object}  ErrorResponse
// @Router       /register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
		return
	case errors.Is(err, services.ErrUsernameTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "username already taken")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to register")
		return
	}

	ok(c, http.StatusCreated, toUserResponse(user))
}

// Login exchanges credentials for a signed token.
//
// @ID           Login
// @Summary      Log in
// @Description  Verifies the email and password and returns a bearer token.
// @Description  Failures are indistinguishable between unknown email and
// @Description  wrong password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  ErrorResponse "Validation error"
// @Failure      401      {object}  ErrorResponse "Invalid credentials"
// @Failure      500      {object}  ErrorResponse
// @Router       /login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to log in")
		return
	}

	ok(c, http.StatusOK, LoginResponse{Token: token, User: toUserResponse(user)})
}

// GetUser returns the account behind the presented token.
//
// @ID           GetUser
// @Summary      Get the authenticated account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse "Missing or invalid token"
// @Failure      404  {object}  ErrorResponse "Account no longer exists"
// @Failure      500  {object}  ErrorResponse
// @Router       /user [get]
func (h *Handlers) GetUser(c *gin.Context) {
	username := middleware.CurrentUser(c)
	if username == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
		return
	}

	user, err := h.authSvc.Profile(c.Request.Context(), username)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load account")
		return
	}

	ok(c, http.StatusOK, toUserResponse(user))
}
