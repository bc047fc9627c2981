package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/softcart/storefront_control/internal/storefront/services/feedbackservice"
)

type publishFeedbackBody struct {
	IsPublished bool `json:"is_published"` //nolint:tagliatelle
}

// Отзывы для консоли администратора, включая скрытые
// (GET /feedback).
func (s *Server) listFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	items, err := s.feedbackService.ListFeedback(r.Context(), false)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Публикация либо скрытие отзыва
// (PATCH /feedback/{id}).
func (s *Server) publishFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var b publishFeedbackBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if err := s.feedbackService.SetPublished(r.Context(),
		principalFrom(r.Context()).Username, id, b.IsPublished); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusOK)
}

// Удаление отзыва
// (DELETE /feedback/{id}).
func (s *Server) deleteFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.feedbackService.DeleteFeedback(r.Context(), principalFrom(r.Context()).Username, id); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Витрина: опубликованные отзывы
// (GET /storefront/feedback).
func (s *Server) publicFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	items, err := s.feedbackService.ListFeedback(r.Context(), true)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Отправка отзыва с витрины
// (POST /storefront/feedback).
func (s *Server) submitFeedback(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b feedbackservice.SubmitRequest

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	f, err := s.feedbackService.Submit(r.Context(), b)
	if err != nil {
		s.respondError(w, err)

		return
	}

	bts, err := json.Marshal(f)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}
