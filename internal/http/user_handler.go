package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service"
)

type Auth interface {
	Register(ctx context.Context, req *service.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
}

type UserHandler struct {
	auth    Auth
	timeout time.Duration
}

func NewUserHandler(auth Auth, timeout time.Duration) *UserHandler {
	return &UserHandler{
		auth:    auth,
		timeout: timeout,
	}
}

type RegisterRequestDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequestDTO struct {
	// Username also accepts an email address.
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TokenResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

func convertUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.Register(ctx, &service.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertUser(user))
}

// POST /api/v1/token
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	result, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		Access:  result.Access,
		Refresh: result.Refresh,
		User:    convertUser(result.User),
	})
}
