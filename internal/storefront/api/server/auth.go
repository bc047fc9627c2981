package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/softcart/storefront_control/internal/storefront/services/authservice"
)

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Аутентификация пользователя
// (POST /auth).
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b loginBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Username == "" || b.Password == "" {
		handleError(w, fmt.Errorf("not enough parameters to auth user"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	token, err := s.authService.Login(r.Context(), b.Username, b.Password)
	if err != nil {
		handleError(w, fmt.Errorf("login error: %w", err), http.StatusUnauthorized)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(AuthUserResponse{Token: token}); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Создание пользователя; staff-роли требуют токен администратора
// (POST /user).
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b createUserBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := authservice.CreateUserRequest{
		Username: b.Username,
		Password: b.Password,
		Role:     b.Role,
		Token:    strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
	}

	token, err := s.authService.CreateUser(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	bts, err := json.Marshal(CreateUserResponse{Token: token})
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}
