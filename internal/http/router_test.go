package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intconfig "travelagency/internal/config"
	h "travelagency/internal/http/handlers"
	"travelagency/internal/repositories/memory"
	"travelagency/internal/services"
)

const testSecret = "router-test-secret"

type harness struct {
	t      *testing.T
	router *gin.Engine
	stores services.Stores
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stores := memory.NewStores()
	h.Configure(h.Deps{Stores: stores, JWTSecret: []byte(testSecret)})

	auth := services.AuthService{Accounts: stores.Accounts, Secret: []byte(testSecret)}
	require.NoError(t, auth.EnsureAdmin(context.Background(), "Root", "admin@example.com", "admin-pass"))

	env := intconfig.Env{CORSOrigins: []string{"http://localhost:3000"}, BookingRateLimit: "1000-M"}
	return &harness{t: t, router: NewRouter(env, nil), stores: stores}
}

func (hs *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	hs.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(hs.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	hs.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (hs *harness) login(email, password string) string {
	hs.t.Helper()
	w := hs.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(hs.t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(hs.t, w)["token"].(string)
	require.NotEmpty(hs.t, token)
	return token
}

// approvedAgent registers an agent, approves it as admin and logs in.
func (hs *harness) approvedAgent(adminToken, email string) string {
	hs.t.Helper()
	w := hs.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Meera Das", "email": email, "mobileNumber": "9822222222", "state": "Kerala", "password": "agent-pass",
	})
	require.Equal(hs.t, http.StatusCreated, w.Code, w.Body.String())
	agent := decode(hs.t, w)["agent"].(map[string]any)

	w = hs.do(http.MethodPut, "/api/admin/agents/"+agent["id"].(string)+"/approve", adminToken, nil)
	require.Equal(hs.t, http.StatusOK, w.Code, w.Body.String())
	return hs.login(email, "agent-pass")
}

func bookingBody() map[string]any {
	return map[string]any{
		"package_name": "Alleppey Houseboat",
		"pickup_date":  "2025-08-10",
		"adults_total": "2",
		"base_total":   "18000",
		"total_amount": "19500.75",
		"extra_food":   map[string]any{"breakfast": "true"},
	}
}

func TestHealth(t *testing.T) {
	hs := newHarness(t)
	w := hs.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthGuards(t *testing.T) {
	hs := newHarness(t)

	w := hs.do(http.MethodGet, "/api/booking/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = hs.do(http.MethodGet, "/api/admin/home", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	adminToken := hs.login("admin@example.com", "admin-pass")
	agentToken := hs.approvedAgent(adminToken, "meera@example.com")

	w = hs.do(http.MethodGet, "/api/admin/home", agentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = hs.do(http.MethodPost, "/api/booking/book-package", adminToken, bookingBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginSetsCookie(t *testing.T) {
	hs := newHarness(t)
	w := hs.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	var token *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			token = ck
		}
	}
	require.NotNil(t, token)
	assert.True(t, token.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token.Value})
	rec := httptest.NewRecorder()
	hs.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPendingAgentCannotLogin(t *testing.T) {
	hs := newHarness(t)
	w := hs.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "New Agent", "email": "new@example.com", "mobileNumber": "1", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = hs.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "new@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	hs := newHarness(t)
	adminToken := hs.login("admin@example.com", "admin-pass")
	agentToken := hs.approvedAgent(adminToken, "meera@example.com")

	w := hs.do(http.MethodPost, "/api/booking/book-package", agentToken, bookingBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode(t, w)["booking"].(map[string]any)
	id := booking["id"].(string)
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, "Booking", booking["source"])
	assert.Equal(t, 19500.75, booking["pricing"].(map[string]any)["total_amount"])

	w = hs.do(http.MethodPut, "/api/admin/booking-details/"+id+"/confirm", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Booking confirmed successfully", decode(t, w)["message"])

	w = hs.do(http.MethodPut, "/api/admin/booking-details/"+id+"/confirm", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Booking already confirmed", decode(t, w)["message"])

	w = hs.do(http.MethodPut, "/api/admin/booking-details/"+id+"/cancel", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = hs.do(http.MethodPut, "/api/admin/booking-details/"+id+"/confirm", adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = hs.do(http.MethodGet, "/api/booking/notifications", agentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode(t, w)["notifications"].([]any)
	assert.Len(t, feed, 3, "created, confirmed, cancelled")

	w = hs.do(http.MethodGet, "/api/booking/bookings/"+id+"/voucher", agentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = hs.do(http.MethodDelete, "/api/admin/booking-details/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = hs.do(http.MethodPut, "/api/admin/booking-details/"+id+"/confirm", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingErrors(t *testing.T) {
	hs := newHarness(t)
	adminToken := hs.login("admin@example.com", "admin-pass")
	agentToken := hs.approvedAgent(adminToken, "meera@example.com")

	body := bookingBody()
	delete(body, "total_amount")
	w := hs.do(http.MethodPost, "/api/booking/book-package", agentToken, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_field", decode(t, w)["code"])

	body = bookingBody()
	body["total_amount"] = "abc"
	body["adults_total"] = 0
	w = hs.do(http.MethodPost, "/api/booking/book-package", agentToken, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "validation_error", resp["code"])
	assert.Len(t, resp["details"], 2)
}

func TestAdminListingAndHome(t *testing.T) {
	hs := newHarness(t)
	adminToken := hs.login("admin@example.com", "admin-pass")
	agentToken := hs.approvedAgent(adminToken, "meera@example.com")

	for i := 0; i < 3; i++ {
		w := hs.do(http.MethodPost, "/api/booking/book-default-package", agentToken, map[string]any{
			"package_name": "Goa Fixed", "adults_total": 1, "base_total": 1000, "total_amount": 1100,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := hs.do(http.MethodGet, "/api/admin/booking-details?searchTerm=meera&limit=2&page=2", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Len(t, resp["bookings"], 1)
	pagination := resp["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["totalPages"])

	w = hs.do(http.MethodGet, "/api/admin/home", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	home := decode(t, w)
	assert.Equal(t, float64(1), home["Agents"])
	assert.Equal(t, float64(3), home["Bookings"])
	assert.Equal(t, float64(0), home["Revenue"])
}

func TestAdminNotifications(t *testing.T) {
	hs := newHarness(t)
	adminToken := hs.login("admin@example.com", "admin-pass")

	w := hs.do(http.MethodPost, "/api/admin/notifications", adminToken, map[string]string{"title": "Holiday", "message": "Office closed"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["notification"].(map[string]any)["id"].(string)

	w = hs.do(http.MethodPatch, "/api/admin/notifications/"+id+"/inactivate", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = hs.do(http.MethodGet, "/api/admin/notifications?filterType=system&filterStatus=inactive", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Len(t, resp["notifications"], 1)

	w = hs.do(http.MethodDelete, "/api/admin/notifications/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = hs.do(http.MethodDelete, "/api/admin/notifications/"+id, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
