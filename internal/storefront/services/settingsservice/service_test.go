package settingsservice

import (
	"context"
	"testing"

	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	saved *models.Settings
}

func (f *fakeSettingsRepo) GetSettings(context.Context) (models.Settings, error) {
	if f.saved == nil {
		return models.DefaultSettings(), nil
	}

	return *f.saved, nil
}

func (f *fakeSettingsRepo) SaveSettings(_ context.Context, s models.Settings) error {
	f.saved = &s

	return nil
}

type fakeAudit struct {
	entries []models.AuditEntry
}

func (f *fakeAudit) Record(_ context.Context, entry models.AuditEntry) error {
	f.entries = append(f.entries, entry)

	return nil
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Info(...interface{})           {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Error(...interface{})          {}
func (noopLogger) Errorf(string, ...interface{}) {}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	svc := New(&fakeSettingsRepo{}, &fakeAudit{}, noopLogger{}) //nolint:exhaustruct

	s, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.DefaultSettings(), s)
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	settingsRepo := &fakeSettingsRepo{} //nolint:exhaustruct
	audit := &fakeAudit{}               //nolint:exhaustruct
	svc := New(settingsRepo, audit, noopLogger{})
	ctx := context.Background()

	saved, err := svc.SaveSettings(ctx, SaveRequest{ //nolint:exhaustruct
		Actor:           "admin",
		StoreName:       "  Softcart  ",
		Currency:        "USD",
		MaintenanceMode: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Softcart", saved.StoreName)

	got, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "Softcart", got.StoreName)
	require.True(t, got.MaintenanceMode)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "settings", audit.entries[0].Resource)
	require.Equal(t, "general", audit.entries[0].ResourceID)
}

func TestSaveSettingsValidation(t *testing.T) {
	svc := New(&fakeSettingsRepo{}, &fakeAudit{}, noopLogger{}) //nolint:exhaustruct

	_, err := svc.SaveSettings(context.Background(), SaveRequest{ //nolint:exhaustruct
		Actor:     "admin",
		StoreName: "   ",
		Currency:  "",
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Messages, 2)
}
