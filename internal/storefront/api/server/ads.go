package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/softcart/storefront_control/internal/storefront/services/adservice"
)

type createAdBody struct {
	Family       string               `json:"family"`
	Position     int                  `json:"position"`
	Title        string               `json:"title"`
	BannerImage  string               `json:"banner_image"`  //nolint:tagliatelle
	BadgeTitle   string               `json:"badge_title"`   //nolint:tagliatelle
	DiscountText string               `json:"discount_text"` //nolint:tagliatelle
	CallToAction *models.CallToAction `json:"call_to_action"` //nolint:tagliatelle
	IsActive     *bool                `json:"is_active"` //nolint:tagliatelle
}

type updateAdBody struct {
	Position     *int                 `json:"position"`
	Title        *string              `json:"title"`
	BannerImage  *string              `json:"banner_image"`  //nolint:tagliatelle
	BadgeTitle   *string              `json:"badge_title"`   //nolint:tagliatelle
	DiscountText *string              `json:"discount_text"` //nolint:tagliatelle
	CallToAction *models.CallToAction `json:"call_to_action"` //nolint:tagliatelle
	IsActive     *bool                `json:"is_active"` //nolint:tagliatelle
}

type reorderAdsBody struct {
	Family string                  `json:"family"`
	Items  []adservice.ReorderItem `json:"items"`
}

// Листинг для консоли администратора: все записи, включая неактивные
// (GET /ads).
func (s *Server) listAds(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	ads, err := s.adService.ListAds(r.Context(), r.URL.Query().Get("family"))
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(ads); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Создание нового рекламного баннера
// (POST /ads).
func (s *Server) createAd(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b createAdBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := adservice.CreateAdRequest{
		Actor:        principalFrom(r.Context()).Username,
		Family:       b.Family,
		Position:     b.Position,
		Title:        b.Title,
		BannerImage:  b.BannerImage,
		BadgeTitle:   b.BadgeTitle,
		DiscountText: b.DiscountText,
		CallToAction: b.CallToAction,
		Active:       b.IsActive,
	}

	ad, err := s.adService.CreateAd(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	bts, err := json.Marshal(CreateAdResponse{AdID: ad.ID})
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

// Частичное обновление баннера; конфликт позиций разрешается обменом
// (PATCH /ads/{id}).
func (s *Server) updateAd(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var b updateAdBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := adservice.UpdateAdRequest{
		Actor:        principalFrom(r.Context()).Username,
		ID:           id,
		Position:     b.Position,
		Title:        b.Title,
		BannerImage:  b.BannerImage,
		BadgeTitle:   b.BadgeTitle,
		DiscountText: b.DiscountText,
		CallToAction: b.CallToAction,
		Active:       b.IsActive,
	}

	resp, err := s.adService.UpdateAd(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(UpdateAdResponse{
		Ad:        resp.Ad,
		Swapped:   resp.Swapped,
		Displaced: resp.Displaced,
	}); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Пакетная перестановка позиций внутри одного семейства
// (POST /ads/reorder).
func (s *Server) reorderAds(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b reorderAdsBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := adservice.ReorderRequest{
		Actor:  principalFrom(r.Context()).Username,
		Family: b.Family,
		Items:  b.Items,
	}

	if err := s.adService.Reorder(r.Context(), req); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusOK)
}

// Удаление баннера; доступно только администратору
// (DELETE /ads/{id}).
func (s *Server) deleteAd(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.adService.DeleteAd(r.Context(), principalFrom(r.Context()).Username, id); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Витрина: только активные баннеры без служебных полей
// (GET /storefront/ads).
func (s *Server) publicAds(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	ads, err := s.adService.PublicAds(r.Context(), r.URL.Query().Get("family"))
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(toPublicAds(ads)); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

func idFromURL(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id error: %w", err)
	}

	return id, nil
}
