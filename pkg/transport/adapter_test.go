package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/auth"
	"github.com/jameswoodtech/rigsheet/pkg/auth/token"
	"github.com/jameswoodtech/rigsheet/pkg/storage/memory"
)

// newTestServer assembles the full middleware chain over an in-memory
// store seeded with one profile, mirroring the production wiring.
func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if _, err := store.SaveProfile(t.Context(), &api.Profile{
		Username:     "bob",
		DisplayName:  "Bob",
		PasswordHash: string(hash),
		Roles:        "ROLE_USER",
	}); err != nil {
		t.Fatalf("seeding profile: %v", err)
	}

	codec, err := token.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	login := auth.NewLoginService(store, codec, time.Hour, nil)

	adapter := NewAdapter(store, login, DefaultConfig())

	var handler http.Handler = adapter.Handler()
	handler = auth.Policy(auth.DefaultRules)(handler)
	handler = auth.Gate(codec, store)(handler)
	handler = RequestID(handler)
	handler = Recovery(nil)(handler)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, bearer string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func loginAs(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()

	resp := doJSON(t, "POST", srv.URL+"/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Token string            `json:"token"`
		User  api.PublicProfile `json:"user"`
	}
	decodeInto(t, resp, &body)
	if body.Token == "" {
		t.Fatal("empty token in login response")
	}
	return body.Token
}

func TestLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	tok := loginAs(t, srv, "bob", "secret")

	resp := doJSON(t, "GET", srv.URL+"/api/auth/me", tok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d, want 200", resp.StatusCode)
	}
	var me api.PublicProfile
	decodeInto(t, resp, &me)
	if me.Username != "bob" {
		t.Errorf("me.username = %q", me.Username)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, creds := range []map[string]string{
		{"username": "bob", "password": "wrong"},
		{"username": "ghost", "password": "secret"},
	} {
		resp := doJSON(t, "POST", srv.URL+"/api/auth/login", "", creds)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("login %v: status = %d, want 401", creds, resp.StatusCode)
			continue
		}
		var body api.ErrorResponse
		decodeInto(t, resp, &body)
		if body.Error == nil || body.Error.Type != api.ErrorTypeInvalidCredentials {
			t.Errorf("login %v: error = %+v", creds, body.Error)
		}
	}
}

func TestMe_NoToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestPublicReads_NoToken(t *testing.T) {
	srv, store := newTestServer(t)

	profile, _ := store.GetProfileByUsername(t.Context(), "bob")
	vehicle, err := store.SaveVehicle(t.Context(), &api.Vehicle{ProfileID: profile.ID, Make: "Toyota"})
	if err != nil {
		t.Fatalf("seeding vehicle: %v", err)
	}

	paths := []string{
		"/api/user-profiles",
		fmt.Sprintf("/api/user-profiles/%d", profile.ID),
		"/api/user-profiles/username/bob",
		fmt.Sprintf("/api/vehicles/user/%d", profile.ID),
		fmt.Sprintf("/api/mods/vehicle/%d", vehicle.ID),
	}
	for _, path := range paths {
		resp := doJSON(t, "GET", srv.URL+path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestProtectedWrites_RequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/api/vehicles", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated list: status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, "POST", srv.URL+"/api/vehicles", "", api.Vehicle{ProfileID: 1})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated create: status = %d, want 401", resp.StatusCode)
	}
}

func TestVehicleLifecycle(t *testing.T) {
	srv, store := newTestServer(t)
	tok := loginAs(t, srv, "bob", "secret")

	profile, _ := store.GetProfileByUsername(t.Context(), "bob")

	// Create.
	resp := doJSON(t, "POST", srv.URL+"/api/vehicles", tok, api.Vehicle{
		ProfileID: profile.ID, VehicleYear: "2021", Make: "Toyota", Model: "Tacoma",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created api.Vehicle
	decodeInto(t, resp, &created)
	if created.ID == 0 {
		t.Fatal("expected assigned vehicle ID")
	}

	// Second vehicle for the same profile conflicts.
	resp = doJSON(t, "POST", srv.URL+"/api/vehicles", tok, api.Vehicle{ProfileID: profile.ID, Make: "Ford"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second vehicle status = %d, want 409", resp.StatusCode)
	}

	// Update preserves ownership when omitted.
	resp = doJSON(t, "PUT", fmt.Sprintf("%s/api/vehicles/%d", srv.URL, created.ID), tok, api.Vehicle{
		Make: "Toyota", Model: "Tacoma", Nickname: "Dusty",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}
	var updated api.Vehicle
	decodeInto(t, resp, &updated)
	if updated.ProfileID != profile.ID || updated.Nickname != "Dusty" {
		t.Errorf("updated = %+v", updated)
	}

	// Delete.
	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/vehicles/%d", srv.URL, created.ID), tok, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	resp = doJSON(t, "GET", fmt.Sprintf("%s/api/vehicles/%d", srv.URL, created.ID), tok, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestModificationLifecycle(t *testing.T) {
	srv, store := newTestServer(t)
	tok := loginAs(t, srv, "bob", "secret")

	profile, _ := store.GetProfileByUsername(t.Context(), "bob")
	vehicle, err := store.SaveVehicle(t.Context(), &api.Vehicle{ProfileID: profile.ID, Make: "Toyota"})
	if err != nil {
		t.Fatalf("seeding vehicle: %v", err)
	}

	resp := doJSON(t, "POST", srv.URL+"/api/mods", tok, api.Modification{
		VehicleID: vehicle.ID, Name: "Winch", Category: "recovery", Brand: "Warn", Sponsored: true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created api.Modification
	decodeInto(t, resp, &created)
	if created.ProfileID != profile.ID {
		t.Errorf("ProfileID = %d, want backfilled %d", created.ProfileID, profile.ID)
	}

	// Filter queries.
	for _, path := range []string{
		"/api/mods",
		fmt.Sprintf("/api/mods/user/%d", profile.ID),
		"/api/mods/category/recovery",
		"/api/mods/brand/Warn",
		"/api/mods/sponsored",
	} {
		resp := doJSON(t, "GET", srv.URL+path, tok, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, resp.StatusCode)
			continue
		}
		var mods []api.Modification
		decodeInto(t, resp, &mods)
		if len(mods) != 1 || mods[0].Name != "Winch" {
			t.Errorf("GET %s: mods = %+v", path, mods)
		}
	}

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/mods/%d", srv.URL, created.ID), tok, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
}

func TestProfileCreate_HashesPassword(t *testing.T) {
	srv, store := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/user-profiles", "", map[string]string{
		"username": "alice",
		"password": "hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	var body map[string]any
	decodeInto(t, resp, &body)
	if _, leaked := body["passwordHash"]; leaked {
		t.Error("response leaks password hash")
	}

	saved, err := store.GetProfileByUsername(t.Context(), "alice")
	if err != nil {
		t.Fatalf("GetProfileByUsername: %v", err)
	}
	if saved.PasswordHash == "" || saved.PasswordHash == "hunter2" {
		t.Errorf("stored hash = %q, want bcrypt hash", saved.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("hunter2")) != nil {
		t.Error("stored hash does not match password")
	}

	// The new account can log in immediately.
	loginAs(t, srv, "alice", "hunter2")
}

func TestProfileCreate_DuplicateUsername(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/user-profiles", "", map[string]string{"username": "bob"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	tok := loginAs(t, srv, "bob", "secret")

	resp := doJSON(t, "GET", srv.URL+"/api/vehicles/notanumber", tok, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad ID status = %d, want 400", resp.StatusCode)
	}

	req, _ := http.NewRequest("POST", srv.URL+"/api/mods", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	raw, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer raw.Body.Close()
	if raw.StatusCode != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", raw.StatusCode)
	}
}

func TestContentTypeWithCharsetAccepted(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"username":"bob","password":"secret"}`)
	req, err := http.NewRequest("POST", srv.URL+"/api/auth/login", body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 for charset parameter", resp.StatusCode)
	}
}

func TestContentTypeWrongMediaType(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest("POST", srv.URL+"/api/auth/login", bytes.NewBufferString("username=bob"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-JSON media type", resp.StatusCode)
	}
}

func TestOpenAPISpecServed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/docs/openapi.yaml", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/healthz", "", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}
