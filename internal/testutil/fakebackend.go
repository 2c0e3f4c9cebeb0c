package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/uuid"
)

// Credentials accepted by the fake backend login endpoint.
const (
	FakeUsername = "admin"
	FakePassword = "secret"
)

// OrderCall is one order-update request received by the fake backend.
type OrderCall struct {
	ContentType   domain.ContentType
	Items         []domain.OrderEntry
	Authorization string
}

// FakeBackend is an in-process stand-in for the portfolio REST API.
type FakeBackend struct {
	Server *httptest.Server
	Token  string

	mu           sync.Mutex
	items        map[domain.ContentType][]domain.Item
	records      map[domain.Resource]map[string]json.RawMessage
	orderCalls   []OrderCall
	orderStatus  int
	orderGate    chan struct{}
	orderEntered chan struct{}
	uploads      map[string][]byte
}

// NewFakeBackend starts a fake backend that is shut down with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		Token:   "fake-token",
		items:   make(map[domain.ContentType][]domain.Item),
		records: make(map[domain.Resource]map[string]json.RawMessage),
		uploads: make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.handleLogin)
	mux.HandleFunc("POST /api/upload", f.auth(f.handleUpload))
	mux.HandleFunc("PUT /api/{resource}/order", f.auth(f.handleOrder))
	mux.HandleFunc("GET /api/{resource}", f.auth(f.handleList))
	mux.HandleFunc("POST /api/{resource}", f.auth(f.handleCreate))
	mux.HandleFunc("GET /api/{resource}/{id}", f.auth(f.handleGet))
	mux.HandleFunc("PUT /api/{resource}/{id}", f.auth(f.handleUpdate))
	mux.HandleFunc("DELETE /api/{resource}/{id}", f.auth(f.handleDelete))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// URL is the base URL of the fake backend.
func (f *FakeBackend) URL() string { return f.Server.URL }

// Close releases blocked order requests and stops the server.
func (f *FakeBackend) Close() {
	f.mu.Lock()
	if f.orderGate != nil {
		close(f.orderGate)
		f.orderGate = nil
	}
	f.mu.Unlock()
	f.Server.Close()
}

// SetItems replaces the stored items of a content type.
func (f *FakeBackend) SetItems(ct domain.ContentType, items []domain.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[ct] = append([]domain.Item(nil), items...)
}

// Items returns the stored items of a content type sorted by order.
func (f *FakeBackend) Items(ct domain.ContentType) []domain.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]domain.Item(nil), f.items[ct]...)
	domain.SortByOrder(out)
	return out
}

// FailOrders makes every order update answer with status. Zero restores
// normal behavior.
func (f *FakeBackend) FailOrders(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderStatus = status
}

// BlockOrders holds order updates until the returned release func is called.
// Each blocked request is announced on entered.
func (f *FakeBackend) BlockOrders() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	ch := make(chan struct{}, 16)
	f.orderGate = gate
	f.orderEntered = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.orderGate == gate {
				close(gate)
				f.orderGate = nil
			}
		})
	}
}

// OrderCalls returns every order update received so far.
func (f *FakeBackend) OrderCalls() []OrderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OrderCall(nil), f.orderCalls...)
}

// Upload returns the content of an uploaded file.
func (f *FakeBackend) Upload(name string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.uploads[name]
	return data, ok
}

// Record returns a stored admin resource record.
func (f *FakeBackend) Record(r domain.Resource, id string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[r][id]
	return rec, ok
}

func (f *FakeBackend) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r)
	}
}

func (f *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Username != FakeUsername || req.Password != FakePassword {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": f.Token,
		"user":  map[string]string{"username": req.Username},
	})
}

func (f *FakeBackend) handleOrder(w http.ResponseWriter, r *http.Request) {
	ct, ok := contentType(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown content type")
		return
	}
	var body struct {
		Items []domain.OrderEntry `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	f.mu.Lock()
	f.orderCalls = append(f.orderCalls, OrderCall{
		ContentType:   ct,
		Items:         body.Items,
		Authorization: r.Header.Get("Authorization"),
	})
	gate, entered := f.orderGate, f.orderEntered
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderStatus != 0 {
		writeError(w, f.orderStatus, "order update rejected")
		return
	}
	positions := make(map[string]int, len(body.Items))
	for _, e := range body.Items {
		positions[e.ID] = e.Order
	}
	stored := f.items[ct]
	if len(positions) != len(stored) {
		writeError(w, http.StatusBadRequest, "order must list every item exactly once")
		return
	}
	for _, it := range stored {
		if _, ok := positions[it.ID]; !ok {
			writeError(w, http.StatusBadRequest, "unknown item "+it.ID)
			return
		}
	}
	for i := range stored {
		stored[i].Order = positions[stored[i].ID]
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (f *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	if ct, ok := contentType(r); ok {
		f.mu.Lock()
		items := append([]domain.Item{}, f.items[ct]...)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, items)
		return
	}
	res, ok := resource(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	f.mu.Lock()
	list := make([]json.RawMessage, 0, len(f.records[res]))
	for _, rec := range f.records[res] {
		list = append(list, rec)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (f *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(data) {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	id := uuid.New().String()

	if ct, ok := contentType(r); ok {
		var it domain.Item
		if err := json.Unmarshal(data, &it); err != nil {
			writeError(w, http.StatusBadRequest, "bad item")
			return
		}
		f.mu.Lock()
		it.ID = id
		it.Order = len(f.items[ct]) + 1
		f.items[ct] = append(f.items[ct], it)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, it)
		return
	}
	res, ok := resource(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "payload must be an object")
		return
	}
	fields["id"] = id
	rec, _ := json.Marshal(fields)

	f.mu.Lock()
	if f.records[res] == nil {
		f.records[res] = make(map[string]json.RawMessage)
	}
	f.records[res][id] = rec
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(rec)
}

func (f *FakeBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if ct, ok := contentType(r); ok {
		for _, it := range f.items[ct] {
			if it.ID == id {
				writeJSON(w, http.StatusOK, it)
				return
			}
		}
		writeError(w, http.StatusNotFound, "no such item")
		return
	}
	res, _ := resource(r)
	rec, ok := f.records[res][id]
	if !ok {
		writeError(w, http.StatusNotFound, "no such record")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(rec)
}

func (f *FakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(data) {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if ct, ok := contentType(r); ok {
		for i := range f.items[ct] {
			if f.items[ct][i].ID != id {
				continue
			}
			it := f.items[ct][i]
			if err := json.Unmarshal(data, &it); err != nil {
				writeError(w, http.StatusBadRequest, "bad item")
				return
			}
			it.ID = id
			f.items[ct][i] = it
			writeJSON(w, http.StatusOK, it)
			return
		}
		writeError(w, http.StatusNotFound, "no such item")
		return
	}
	res, _ := resource(r)
	if _, ok := f.records[res][id]; !ok {
		writeError(w, http.StatusNotFound, "no such record")
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "payload must be an object")
		return
	}
	fields["id"] = id
	rec, _ := json.Marshal(fields)
	f.records[res][id] = rec
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(rec)
}

func (f *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if ct, ok := contentType(r); ok {
		for i, it := range f.items[ct] {
			if it.ID == id {
				f.items[ct] = append(f.items[ct][:i], f.items[ct][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "no such item")
		return
	}
	res, _ := resource(r)
	if _, ok := f.records[res][id]; !ok {
		writeError(w, http.StatusNotFound, "no such record")
		return
	}
	delete(f.records[res], id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}
	f.mu.Lock()
	f.uploads[header.Filename] = data
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{
		"url":      "/uploads/" + header.Filename,
		"filename": header.Filename,
	})
}

func contentType(r *http.Request) (domain.ContentType, bool) {
	ct := domain.ContentType(r.PathValue("resource"))
	return ct, ct.Valid()
}

func resource(r *http.Request) (domain.Resource, bool) {
	name := r.PathValue("resource")
	res, err := domain.ParseResource(name)
	if err != nil || string(res) != name {
		return "", false
	}
	return res, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
