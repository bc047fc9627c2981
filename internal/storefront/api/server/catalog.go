package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/softcart/storefront_control/internal/storefront/services/catalogservice"
)

type productBody struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"` //nolint:tagliatelle
	ImageURL    string `json:"image_url"`   //nolint:tagliatelle
	Stock       int    `json:"stock"`
	IsPublished bool   `json:"is_published"` //nolint:tagliatelle
}

type eventBody struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"` //nolint:tagliatelle
	StartsAt    time.Time `json:"starts_at"` //nolint:tagliatelle
	EndsAt      time.Time `json:"ends_at"`   //nolint:tagliatelle
	IsPublished bool      `json:"is_published"` //nolint:tagliatelle
}

// Каталог товаров для консоли администратора
// (GET /products).
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	products, err := s.catalogService.ListProducts(r.Context(), false)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(products); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Создание товара
// (POST /products).
func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b productBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	p, err := s.catalogService.CreateProduct(r.Context(), productRequest(r, b, 0))
	if err != nil {
		s.respondError(w, err)

		return
	}

	bts, err := json.Marshal(CreateProductResponse{ProductID: p.ID})
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

// Карточка товара для консоли администратора
// (GET /products/{id}).
func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	p, err := s.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Полная замена товара
// (PUT /products/{id}).
func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var b productBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	p, err := s.catalogService.UpdateProduct(r.Context(), productRequest(r, b, id))
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Удаление товара
// (DELETE /products/{id}).
func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.catalogService.DeleteProduct(r.Context(), principalFrom(r.Context()).Username, id); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Витрина: опубликованные товары
// (GET /storefront/products).
func (s *Server) publicProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	products, err := s.catalogService.ListProducts(r.Context(), true)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(products); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Витрина: товар по слагу
// (GET /storefront/products/{slug}).
func (s *Server) publicProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	p, err := s.catalogService.PublicProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// События для консоли администратора
// (GET /events).
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	events, err := s.catalogService.ListEvents(r.Context(), false)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(events); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Создание события
// (POST /events).
func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b eventBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	e, err := s.catalogService.CreateEvent(r.Context(), eventRequest(r, b, 0))
	if err != nil {
		s.respondError(w, err)

		return
	}

	bts, err := json.Marshal(CreateEventResponse{EventID: e.ID})
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

// Полная замена события
// (PUT /events/{id}).
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var b eventBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	e, err := s.catalogService.UpdateEvent(r.Context(), eventRequest(r, b, id))
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(e); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Удаление события
// (DELETE /events/{id}).
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.catalogService.DeleteEvent(r.Context(), principalFrom(r.Context()).Username, id); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Витрина: предстоящие опубликованные события
// (GET /storefront/events).
func (s *Server) publicEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	events, err := s.catalogService.ListEvents(r.Context(), true)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(events); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

func productRequest(r *http.Request, b productBody, id int64) catalogservice.ProductRequest {
	return catalogservice.ProductRequest{
		Actor:       principalFrom(r.Context()).Username,
		ID:          id,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		PriceCents:  b.PriceCents,
		ImageURL:    b.ImageURL,
		Stock:       b.Stock,
		Published:   b.IsPublished,
	}
}

func eventRequest(r *http.Request, b eventBody, id int64) catalogservice.EventRequest {
	return catalogservice.EventRequest{
		Actor:       principalFrom(r.Context()).Username,
		ID:          id,
		Title:       b.Title,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		StartsAt:    b.StartsAt,
		EndsAt:      b.EndsAt,
		Published:   b.IsPublished,
	}
}
