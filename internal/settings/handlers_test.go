package settings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inhaus-automation/backend/internal/settings"
)

type fakeStore struct {
	saved *settings.CompanySettings
}

func (f *fakeStore) Get(context.Context) (settings.CompanySettings, error) {
	if f.saved == nil {
		return settings.Defaults(), nil
	}
	return *f.saved, nil
}

func (f *fakeStore) Upsert(_ context.Context, s settings.CompanySettings) (settings.CompanySettings, error) {
	s.UpdatedAt = time.Now()
	f.saved = &s
	return s, nil
}

func TestSettingsGetReturnsDefaultsWhenUnset(t *testing.T) {
	handler := settings.NewHandler(settings.HandlerConfig{Store: &fakeStore{}})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data settings.CompanySettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Inhaus Automation", resp.Data.CompanyName)
	require.Equal(t, "18", resp.Data.DefaultGSTPercent.String())
}

func TestSettingsUpsertIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	handler := settings.NewHandler(settings.HandlerConfig{Store: store})

	body := `{"company_name":"Inhaus Automation Pvt Ltd","gstin":"29ABCDE1234F1Z5","bank_name":"HDFC","upi_id":"inhaus@hdfc"}`
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.Update(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	var resp struct {
		Data settings.CompanySettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "29ABCDE1234F1Z5", resp.Data.GSTIN)
	require.Equal(t, "inhaus@hdfc", resp.Data.UPIID)
}

func TestSettingsUpdateRequiresCompanyName(t *testing.T) {
	handler := settings.NewHandler(settings.HandlerConfig{Store: &fakeStore{}})

	rec := httptest.NewRecorder()
	handler.Update(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
