package contact_test

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

	"github.com/inhaus-automation/backend/internal/common"
	"github.com/inhaus-automation/backend/internal/contact"
)

type fakeStore struct {
	items map[uuid.UUID]contact.Submission
	order []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[uuid.UUID]contact.Submission{}}
}

func (f *fakeStore) Insert(_ context.Context, s contact.Submission) (contact.Submission, error) {
	s.ID = uuid.New()
	s.Status = "new"
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.items[s.ID] = s
	f.order = append([]uuid.UUID{s.ID}, f.order...)
	return s, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (contact.Submission, error) {
	s, ok := f.items[id]
	if !ok {
		return contact.Submission{}, contact.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]contact.Submission, int64, error) {
	out := make([]contact.Submission, 0, limit)
	for i := offset; i < len(f.order) && len(out) < limit; i++ {
		out = append(out, f.items[f.order[i]])
	}
	return out, int64(len(f.order)), nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) (contact.Submission, error) {
	s, ok := f.items[id]
	if !ok {
		return contact.Submission{}, contact.ErrNotFound
	}
	s.Status = status
	f.items[id] = s
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return contact.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestContactCreateAndGet(t *testing.T) {
	store := newFakeStore()
	mailer := &common.InMemoryEmail{}
	handler := contact.NewHandler(contact.HandlerConfig{
		Store:       store,
		Mailer:      mailer,
		NotifyEmail: "sales@example.com",
	})

	body := `{"name":"Ravi Kumar","email":"ravi@example.com","phone":"9876543210","message":"Need a quote for a 3BHK"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data contact.Submission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "new", created.Data.Status)
	require.NotEqual(t, uuid.Nil, created.Data.ID)
	require.Len(t, mailer.Outbox, 1)
	require.Equal(t, "sales@example.com", mailer.Outbox[0].To)

	greq := withURLParam(httptest.NewRequest(http.MethodGet, "/api/contact/"+created.Data.ID.String(), nil), "id", created.Data.ID.String())
	grec := httptest.NewRecorder()
	handler.Get(grec, greq)
	require.Equal(t, http.StatusOK, grec.Code)
}

func TestContactCreateRequiresName(t *testing.T) {
	handler := contact.NewHandler(contact.HandlerConfig{Store: newFakeStore()})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactCreateSucceedsWhenMailerFails(t *testing.T) {
	mailer := &common.InMemoryEmail{Err: common.ErrEmailUnavailable}
	handler := contact.NewHandler(contact.HandlerConfig{
		Store:       newFakeStore(),
		Mailer:      mailer,
		NotifyEmail: "sales@example.com",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Asha"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestContactListNewestFirst(t *testing.T) {
	store := newFakeStore()
	handler := contact.NewHandler(contact.HandlerConfig{Store: store})

	for _, name := range []string{"First", "Second"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"`+name+`"}`))
		handler.Create(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []contact.Submission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, "Second", resp.Data[0].Name)
}

func TestContactUpdateStatusRejectsUnknown(t *testing.T) {
	store := newFakeStore()
	handler := contact.NewHandler(contact.HandlerConfig{Store: store})

	sub, err := store.Insert(context.Background(), contact.Submission{Name: "Asha"})
	require.NoError(t, err)

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/contact/"+sub.ID.String(), strings.NewReader(`{"status":"bogus"}`)), "id", sub.ID.String())
	rec := httptest.NewRecorder()
	handler.UpdateStatus(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = withURLParam(httptest.NewRequest(http.MethodPatch, "/api/contact/"+sub.ID.String(), strings.NewReader(`{"status":"contacted"}`)), "id", sub.ID.String())
	rec = httptest.NewRecorder()
	handler.UpdateStatus(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestContactGetUnknownIs404(t *testing.T) {
	handler := contact.NewHandler(contact.HandlerConfig{Store: newFakeStore()})

	id := uuid.NewString()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/contact/"+id, nil), "id", id)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
