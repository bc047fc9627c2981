package settingsservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/softcart/storefront_control/pkg/logger"
)

const resourceSettings = "settings"

type SettingsService struct {
	settingsRepo Repository
	audit        Audit
	lg           logger.Logger
}

type Repository interface {
	GetSettings(context.Context) (models.Settings, error)
	SaveSettings(context.Context, models.Settings) error
}

type Audit interface {
	Record(context.Context, models.AuditEntry) error
}

type SaveRequest struct {
	Actor           string
	StoreName       string
	SupportEmail    string
	SupportPhone    string
	Currency        string
	BannerMessage   string
	MaintenanceMode bool
}

func New(settingsRepo Repository, audit Audit, lg logger.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		audit:        audit,
		lg:           lg,
	}
}

func (ss *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	s, err := ss.settingsRepo.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("get settings error: %w", err)
	}

	return s, nil
}

func (ss *SettingsService) SaveSettings(ctx context.Context, req SaveRequest) (models.Settings, error) {
	req.StoreName = strings.TrimSpace(req.StoreName)
	req.Currency = strings.TrimSpace(req.Currency)

	var msgs []string

	if req.StoreName == "" {
		msgs = append(msgs, "store name must not be empty")
	}

	if req.Currency == "" {
		msgs = append(msgs, "currency must not be empty")
	}

	if len(msgs) != 0 {
		return models.Settings{}, apperrors.NewValidation(msgs)
	}

	s := models.Settings{
		StoreName:       req.StoreName,
		SupportEmail:    strings.TrimSpace(req.SupportEmail),
		SupportPhone:    strings.TrimSpace(req.SupportPhone),
		Currency:        req.Currency,
		BannerMessage:   strings.TrimSpace(req.BannerMessage),
		MaintenanceMode: req.MaintenanceMode,
		UpdatedAt:       time.Now(),
	}

	if err := ss.settingsRepo.SaveSettings(ctx, s); err != nil {
		return models.Settings{}, fmt.Errorf("save settings error: %w", err)
	}

	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      req.Actor,
		Action:     models.ActionUpdate,
		Resource:   resourceSettings,
		ResourceID: "general",
		Metadata: map[string]interface{}{
			"store_name":       s.StoreName,
			"maintenance_mode": s.MaintenanceMode,
		},
		CreatedAt: time.Now(),
	}

	if err := ss.audit.Record(ctx, entry); err != nil {
		ss.lg.Errorf("audit record error: %s", err.Error())
	}

	return s, nil
}
