package models

import (
	"time"
)

// Settings is the single general-settings document for the store.
type Settings struct {
	StoreName       string    `json:"store_name"`    //nolint:tagliatelle
	SupportEmail    string    `json:"support_email"` //nolint:tagliatelle
	SupportPhone    string    `json:"support_phone"` //nolint:tagliatelle
	Currency        string    `json:"currency"`
	BannerMessage   string    `json:"banner_message"`   //nolint:tagliatelle
	MaintenanceMode bool      `json:"maintenance_mode"` //nolint:tagliatelle
	UpdatedAt       time.Time `json:"updated_at"`       //nolint:tagliatelle
}

func DefaultSettings() Settings {
	return Settings{
		StoreName: "storefront",
		Currency:  "USD",
	}
}
