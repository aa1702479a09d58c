package invoice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/inhaus-automation/backend/internal/invoice"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestUpdateStatusCancelsInvoice(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil)
	handler := invoice.NewHandler(invoice.HandlerConfig{Service: svc, Store: store})

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	id := inv.ID.String()
	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/invoices/"+id+"/status",
		strings.NewReader(`{"status":"cancelled"}`)), "id", id)
	rec := httptest.NewRecorder()
	handler.UpdateStatus(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data invoice.Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, invoice.StatusCancelled, resp.Data.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil)
	handler := invoice.NewHandler(invoice.HandlerConfig{Service: svc, Store: store})

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	id := inv.ID.String()
	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/invoices/"+id+"/status",
		strings.NewReader(`{"status":"archived"}`)), "id", id)
	rec := httptest.NewRecorder()
	handler.UpdateStatus(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
