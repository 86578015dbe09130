package handler

import (
	"net/http"
	"net/mail"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/auth"
	"github.com/xenking/pos-backend/internal/domain/cashier"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (req *registerRequest) validate() error {
	var problems []string
	if _, err := mail.ParseAddress(req.Email); err != nil {
		problems = append(problems, "invalid email")
	}
	if len(req.Password) < 8 {
		problems = append(problems, "password must be at least 8 characters")
	}
	if req.Name == "" {
		problems = append(problems, "name is required")
	}
	if len(problems) > 0 {
		return apperr.ValidationDetails("Validation error", problems)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *loginRequest) validate() error {
	var problems []string
	if _, err := mail.ParseAddress(req.Email); err != nil {
		problems = append(problems, "invalid email")
	}
	if req.Password == "" {
		problems = append(problems, "password is required")
	}
	if len(problems) > 0 {
		return apperr.ValidationDetails("Validation error", problems)
	}
	return nil
}

type profileResponse struct {
	ID    string       `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name"`
	Role  cashier.Role `json:"role"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  profileResponse `json:"user"`
}

func toProfileResponse(p auth.Profile) profileResponse {
	return profileResponse{ID: p.ID, Email: p.Email, Name: p.Name, Role: p.Role}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toProfileResponse(*profile))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User:  toProfileResponse(result.User),
	})
}
