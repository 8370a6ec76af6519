package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/pokecatch/backend/internal/auth"
	"github.com/ayush/pokecatch/backend/internal/catalog"
	"github.com/ayush/pokecatch/backend/internal/pokemon"
	"github.com/ayush/pokecatch/backend/internal/testutil"
)

type testServer struct {
	srv   *httptest.Server
	store *testutil.MemStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop().Sugar()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon/eevee" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":133,"name":"eevee"}`))
	}))
	t.Cleanup(upstream.Close)

	store := testutil.NewMemStore()
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService([]byte("router-secret"), auth.DefaultTokenTTL)
	require.NoError(t, err)
	svc, err := auth.NewService(store, hasher, tokens)
	require.NoError(t, err)

	coll := pokemon.NewCollection(store, &testutil.MemJournal{}, logger)
	h := New(Deps{
		Auth:           auth.NewHandler(svc, logger),
		Pokemon:        pokemon.NewHandler(coll, catalog.NewClient(upstream.URL, 2*time.Second), logger),
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logger,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: store}
}

// do sends a request and decodes the JSON body into a generic map.
func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	code, body := s.do(t, http.MethodPost, "/register", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User registered successfully", body["message"])

	code, body = s.do(t, http.MethodPost, "/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	code, body := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_CatchListRelease(t *testing.T) {
	s := newTestServer(t)
	t1 := s.login(t, "a@x.com", "pw1")

	code, body := s.do(t, http.MethodPost, "/protected/catch", t1, `{"name":"eevee"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Pokemon caught", body["message"])
	rec := body["data"].(map[string]any)
	recID := rec["id"].(string)
	require.NotEmpty(t, recID)

	code, body = s.do(t, http.MethodGet, "/protected/caught", t1, "")
	require.Equal(t, http.StatusOK, code)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, recID, first["id"])
	assert.Equal(t, "eevee", first["pokemon"].(map[string]any)["name"])

	code, body = s.do(t, http.MethodDelete, "/protected/release/"+recID, t1, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Pokemon released", body["message"])

	code, body = s.do(t, http.MethodGet, "/protected/caught", t1, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No Pokemon caught yet", body["message"])

	code, body = s.do(t, http.MethodGet, "/protected/history", t1, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 2)
}

func TestRouter_ProtectedRequiresToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path, token string }{
		{http.MethodGet, "/protected/caught", ""},
		{http.MethodPost, "/protected/catch", ""},
		{http.MethodDelete, "/protected/release/abc", ""},
		{http.MethodGet, "/protected/history", "not-a-jwt"},
	} {
		code, body := s.do(t, tc.method, tc.path, tc.token, "")
		assert.Equal(t, http.StatusUnauthorized, code, tc.path)
		assert.Equal(t, "unauthorized", body["error"], tc.path)
	}
	assert.Zero(t, s.store.CaughtCount())
}

func TestRouter_UsersAreIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "a@x.com", "pw1")
	bob := s.login(t, "b@x.com", "pw2")

	_, body := s.do(t, http.MethodPost, "/protected/catch", alice, `{"name":"eevee"}`)
	recID := body["data"].(map[string]any)["id"].(string)

	code, body := s.do(t, http.MethodGet, "/protected/caught", bob, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No Pokemon caught yet", body["message"])

	code, _ = s.do(t, http.MethodDelete, "/protected/release/"+recID, bob, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 1, s.store.CaughtCount())
}

func TestRouter_AuthFailures(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "a@x.com", "pw1")

	code, body := s.do(t, http.MethodPost, "/register", "", `{"email":"a@x.com","password":"other"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Email already registered", body["message"])

	code, _ = s.do(t, http.MethodPost, "/login", "", `{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/login", "", `{"email":"ghost@x.com","password":"pw1"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_CatalogLookup(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/pokemon/eevee", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "eevee", body["data"].(map[string]any)["name"])

	code, body = s.do(t, http.MethodGet, "/pokemon/missingno", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Pokemon not found", body["error"])
}
