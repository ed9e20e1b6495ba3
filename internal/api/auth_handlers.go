package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/tilespeak/tilespeak-server/internal/domain"
	"github.com/tilespeak/tilespeak-server/internal/http/response"
	"github.com/tilespeak/tilespeak-server/internal/service"
)

// userResponse is the client-facing user shape. The credential hash never
// leaves the server.
type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Language    string    `json:"language"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	LastLoginAt time.Time `json:"last_login_at,omitzero"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Language:    u.Language,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.services.Auth.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}

	s.setSessionCookie(w, session.Token)
	response.JSON(w, http.StatusCreated, toUserResponse(session.User))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow(clientIP(r)) {
		response.Error(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.services.Auth.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}

	s.setSessionCookie(w, session.Token)
	response.JSON(w, http.StatusOK, toUserResponse(session.User))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	response.Message(w, http.StatusOK, "logged out")
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Auth.GetUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, toUserResponse(user))
}
