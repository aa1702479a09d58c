package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/inhaus-automation/backend/internal/catalog"
)

type fakeStore struct {
	items map[uuid.UUID]catalog.Product
	order []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[uuid.UUID]catalog.Product{}}
}

func (f *fakeStore) Insert(_ context.Context, p catalog.Product) (catalog.Product, error) {
	for _, existing := range f.items {
		if existing.ModelNo == p.ModelNo {
			return catalog.Product{}, catalog.ErrDuplicateModel
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.items[p.ID] = p
	f.order = append([]uuid.UUID{p.ID}, f.order...)
	return p, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (catalog.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) List(_ context.Context, category string, limit, offset int) ([]catalog.Product, int64, error) {
	filtered := make([]catalog.Product, 0, len(f.order))
	for _, id := range f.order {
		p := f.items[id]
		if category == "" || p.Category == category {
			filtered = append(filtered, p)
		}
	}
	out := make([]catalog.Product, 0, limit)
	for i := offset; i < len(filtered) && len(out) < limit; i++ {
		out = append(out, filtered[i])
	}
	return out, int64(len(filtered)), nil
}

func (f *fakeStore) Update(_ context.Context, p catalog.Product) (catalog.Product, error) {
	if _, ok := f.items[p.ID]; !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestProductCreateListGet(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Store: newFakeStore()})

	body := `{"model_no":"SW-400","name":"Smart Switch 4-gang","category":"switches","list_price":"4500.00","cost":"2800.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.Data.Active)
	require.Equal(t, "4500", created.Data.ListPrice.String())

	lreq := httptest.NewRequest(http.MethodGet, "/api/products?category=switches", nil)
	lrec := httptest.NewRecorder()
	handler.List(lrec, lreq)
	require.Equal(t, http.StatusOK, lrec.Code)

	var list struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(lrec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)

	id := created.Data.ID.String()
	greq := withURLParam(httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil), "id", id)
	grec := httptest.NewRecorder()
	handler.Get(grec, greq)
	require.Equal(t, http.StatusOK, grec.Code)
}

func TestProductCreateInactive(t *testing.T) {
	store := newFakeStore()
	handler := catalog.NewHandler(catalog.HandlerConfig{Store: store})

	body := `{"model_no":"SW-OLD","name":"Discontinued Switch","active":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.False(t, created.Data.Active)
	require.False(t, store.items[created.Data.ID].Active)
}

func TestProductCreateValidation(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Store: newFakeStore()})

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"no model"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"model_no":"X","name":"neg","list_price":"-5"}`))
	rec = httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDuplicateModelConflict(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Store: newFakeStore()})

	body := `{"model_no":"SW-400","name":"Switch"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body)))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductDeleteUnknownIs404(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Store: newFakeStore()})

	id := uuid.NewString()
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/products/"+id, nil), "id", id)
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
