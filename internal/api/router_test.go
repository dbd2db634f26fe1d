package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ahssan23/medication-tracker/internal/api/handler"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/config"
	"github.com/Ahssan23/medication-tracker/internal/store/memory"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:      "test",
		CORSAllowOrigins: []string{"http://localhost:3000"},
		RateLimitEnabled: false,
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		VAPIDPublicKey:   "test-public-key",
		VAPIDPrivateKey:  "test-private-key",
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	h := handler.New(memory.NewUserRepo(), memory.NewMedicineRepo(), memory.NewSubscriptionRepo(), tokens, cfg, nil)

	srv := httptest.NewServer(NewRouter(h, tokens, cfg, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signup(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "Passw0rd",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	decode(t, resp, &out)
	if out.Token == "" {
		t.Fatal("signup returned empty token")
	}
	return out.Token
}

func TestSignupLoginFlow(t *testing.T) {
	srv := testServer(t)
	signup(t, srv, "flow@example.com")

	// Duplicate email
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"name": "Again", "email": "flow@example.com", "password": "Passw0rd",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", resp.StatusCode)
	}

	// Login with correct credentials
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "Passw0rd",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, resp, &out)
	if out.User.Email != "flow@example.com" {
		t.Errorf("login user email = %q", out.User.Email)
	}

	// Wrong password
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "WrongPass1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", resp.StatusCode)
	}

	// Unknown email gets the same status
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "Passw0rd",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", resp.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing fields", map[string]string{"email": "a@b.co"}},
		{"bad email", map[string]string{"name": "A", "email": "not-an-email", "password": "Passw0rd"}},
		{"weak password", map[string]string{"name": "A", "email": "a@b.co", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", tt.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestMedicineCRUD(t *testing.T) {
	srv := testServer(t)
	token := signup(t, srv, "crud@example.com")

	// Unauthenticated access is rejected
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/medicines", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list status = %d, want 401", resp.StatusCode)
	}

	// Create
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/medicines", token, map[string]string{
		"name": "Aspirin", "startDate": "2025-01-01", "endDate": "2025-01-10", "medicineTime": "09:00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID string `json:"_id"`
	}
	decode(t, resp, &created)
	if created.ID == "" {
		t.Fatal("created medicine has empty id")
	}

	// Invalid payload
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/medicines", token, map[string]string{
		"name": "Bad", "startDate": "2025-01-10", "endDate": "2025-01-01", "medicineTime": "09:00",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("inverted range status = %d, want 400", resp.StatusCode)
	}

	// List
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/medicines", token, nil)
	var list []map[string]any
	decode(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}

	// Update
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/medicines/"+created.ID, token, map[string]string{
		"name": "Aspirin Forte", "startDate": "2025-01-01", "endDate": "2025-01-15", "medicineTime": "10:30",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}
	var updated struct {
		Name string `json:"name"`
	}
	decode(t, resp, &updated)
	if updated.Name != "Aspirin Forte" {
		t.Errorf("updated name = %q", updated.Name)
	}

	// Another user cannot see or touch it
	otherToken := signup(t, srv, "other@example.com")
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/medicines/"+created.ID, otherToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user delete status = %d, want 404", resp.StatusCode)
	}

	// Delete
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/medicines/"+created.ID, token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/medicines", token, nil)
	list = nil
	decode(t, resp, &list)
	if len(list) != 0 {
		t.Errorf("list length after delete = %d, want 0", len(list))
	}
}

func TestSubscribe(t *testing.T) {
	srv := testServer(t)
	token := signup(t, srv, "push@example.com")

	// Public VAPID key endpoint
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/subscribe/vapid", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("vapid status = %d, want 200", resp.StatusCode)
	}
	var keyOut map[string]string
	decode(t, resp, &keyOut)
	if keyOut["publicKey"] != "test-public-key" {
		t.Errorf("publicKey = %q", keyOut["publicKey"])
	}

	// Subscribe requires auth
	body := map[string]any{
		"endpoint": "https://push.example/abc",
		"keys":     map[string]string{"p256dh": "p", "auth": "a"},
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/subscribe", "", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated subscribe status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/subscribe", token, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("subscribe status = %d, want 201", resp.StatusCode)
	}

	// Re-registering the same endpoint is idempotent
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/subscribe", token, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("repeat subscribe status = %d, want 201", resp.StatusCode)
	}

	// Missing keys rejected
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/subscribe", token, map[string]any{
		"endpoint": "https://push.example/xyz",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("incomplete subscribe status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d, want 200", resp.StatusCode)
	}

	// No pool wired: db health reports not configured but stays healthy.
	resp, err = http.Get(srv.URL + "/health/db")
	if err != nil {
		t.Fatalf("GET /health/db: %v", err)
	}
	var out map[string]any
	decode(t, resp, &out)
	if out["database"] != "not configured" {
		t.Errorf("database = %v", out["database"])
	}
}
