package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"github.com/dmitrijs2005/penguintracker/internal/server/auth"
	"github.com/dmitrijs2005/penguintracker/internal/server/config"
	"github.com/dmitrijs2005/penguintracker/internal/server/models"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/penguins"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/users"
	"github.com/dmitrijs2005/penguintracker/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}

	repo := penguins.NewMemoryRepository()
	require.NoError(t, penguins.Seed(context.Background(), repo))

	us := services.NewUserService(users.NewMemoryRepository(), auth.NewPasswordHasher(bcrypt.MinCost), cfg)
	return NewServer("127.0.0.1:0", logging.Nop(), us, services.NewPenguinService(repo))
}

type apiCall struct {
	method string
	path   string
	token  string
	body   any
}

func do(t *testing.T, h http.Handler, c apiCall) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func register(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, apiCall{method: http.MethodPost, path: "/users", body: map[string]string{
		"name": "John", "email": "john@doe.com", "password": "password123",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[authResponse](t, rec).AccessToken
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), apiCall{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decodeBody[map[string]string](t, rec)["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, apiCall{method: http.MethodPost, path: "/users", body: map[string]string{
		"name": "John", "email": "john@doe.com", "password": "password123",
	}})
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decodeBody[authResponse](t, rec)
	assert.NotEmpty(t, reg.AccessToken)
	assert.Equal(t, "john@doe.com", reg.User.Email)
	require.NotNil(t, reg.User.Name)
	assert.Equal(t, "John", *reg.User.Name)

	rec = do(t, h, apiCall{method: http.MethodPost, path: "/users", body: map[string]string{
		"name": "Again", "email": "john@doe.com", "password": "password123",
	}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody[ErrorResponse](t, rec).Message)

	rec = do(t, h, apiCall{method: http.MethodPost, path: "/login", body: map[string]string{
		"email": "john@doe.com", "password": "password123",
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reg.User.ID, decodeBody[authResponse](t, rec).User.ID)

	rec = do(t, h, apiCall{method: http.MethodPost, path: "/login", body: map[string]string{
		"email": "john@doe.com", "password": "nope",
	}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeBody[ErrorResponse](t, rec).Message)
}

func TestMalformedBody(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPenguinsRequireAuth(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, apiCall{method: http.MethodGet, path: "/penguins"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, apiCall{method: http.MethodGet, path: "/penguins", token: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid access token", decodeBody[ErrorResponse](t, rec).Message)
}

func TestListPenguins(t *testing.T) {
	h := newTestServer(t).Handler()
	token := register(t, h)

	rec := do(t, h, apiCall{method: http.MethodGet, token: token,
		path: "/penguins?gender=MALE&sortField=bodyMassG&sortDirection=desc&page=1&pageSize=5"})
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodeBody[models.PenguinPage](t, rec)
	require.Len(t, page.Penguins, 5)
	for i, p := range page.Penguins {
		assert.Equal(t, "MALE", *p.Sex)
		if i > 0 {
			assert.GreaterOrEqual(t, *page.Penguins[i-1].BodyMassG, *p.BodyMassG)
		}
	}
	assert.Equal(t, (page.TotalCount+4)/5, page.TotalPages)

	rec = do(t, h, apiCall{method: http.MethodGet, token: token, path: "/penguins?page=abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, apiCall{method: http.MethodGet, token: token, path: "/penguins?sortField=wingspan"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPenguinLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()
	token := register(t, h)

	rec := do(t, h, apiCall{method: http.MethodPost, path: "/penguins", token: token, body: map[string]any{
		"name": "Pingu", "species": "Emperor", "island": "Ross", "sex": "MALE", "bodyMassG": 23000,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Penguin](t, rec)
	assert.Greater(t, created.ID, int64(penguins.SampleSize))

	rec = do(t, h, apiCall{method: http.MethodPatch, path: "/penguins/" + itoa(created.ID), token: token, body: map[string]any{
		"island": "Coulman",
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Coulman", decodeBody[models.Penguin](t, rec).Island)

	rec = do(t, h, apiCall{method: http.MethodDelete, path: "/penguins/" + itoa(created.ID), token: token})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, apiCall{method: http.MethodDelete, path: "/penguins/" + itoa(created.ID), token: token})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Penguin not found", decodeBody[ErrorResponse](t, rec).Message)

	rec = do(t, h, apiCall{method: http.MethodPatch, path: "/penguins/xyz", token: token, body: map[string]any{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, apiCall{method: http.MethodPost, path: "/penguins", token: token, body: map[string]any{"species": "Emperor"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), apiCall{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody[ErrorResponse](t, rec).Message)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_BadAddress(t *testing.T) {
	s := NewServer("256.0.0.1:bad", logging.Nop(), nil, nil)
	require.Error(t, s.Run(context.Background()))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
