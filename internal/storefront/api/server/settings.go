package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/softcart/storefront_control/internal/storefront/services/settingsservice"
)

type settingsBody struct {
	StoreName       string `json:"store_name"`    //nolint:tagliatelle
	SupportEmail    string `json:"support_email"` //nolint:tagliatelle
	SupportPhone    string `json:"support_phone"` //nolint:tagliatelle
	Currency        string `json:"currency"`
	BannerMessage   string `json:"banner_message"`   //nolint:tagliatelle
	MaintenanceMode bool   `json:"maintenance_mode"` //nolint:tagliatelle
}

// Настройки магазина для витрины
// (GET /storefront/settings).
func (s *Server) publicSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	settings, err := s.settingsService.GetSettings(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(settings); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Полная замена настроек магазина
// (PUT /settings).
func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b settingsBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := settingsservice.SaveRequest{
		Actor:           principalFrom(r.Context()).Username,
		StoreName:       b.StoreName,
		SupportEmail:    b.SupportEmail,
		SupportPhone:    b.SupportPhone,
		Currency:        b.Currency,
		BannerMessage:   b.BannerMessage,
		MaintenanceMode: b.MaintenanceMode,
	}

	settings, err := s.settingsService.SaveSettings(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(settings); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}
