package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/models"
)

func TestLogin_PostsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req clients.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)

		json.NewEncoder(w).Encode(clients.AuthResponse{Token: "tok-abc"})
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	resp, err := p.Login(context.Background(), clients.LoginRequest{Username: "alice", Password: "secret"})
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", resp.Token)
}

func TestGetOrders_BearerTokenAndStatusFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		assert.Equal(t, "PENDING_APPROVAL", r.URL.Query().Get("status"))

		json.NewEncoder(w).Encode([]models.Order{{ID: "o1", Status: models.OrderPendingApproval}})
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	orders, err := p.GetOrders(context.Background(), "tok-abc", "PENDING_APPROVAL")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestGetOrders_NoStatusOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("status"))
		json.NewEncoder(w).Encode([]models.Order{})
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.GetOrders(context.Background(), "tok-abc", "")
	assert.NoError(t, err)
}

func TestErrorBody_MessageSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "Order already approved"})
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.ApproveOrder(context.Background(), "tok", "o1", models.ApprovalActionRequest{Comments: "ok"})
	assert.Error(t, err)

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "Order already approved", appErr.Message)
}

func TestErrorBody_DetailFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "quantity must be positive"})
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.GetOrder(context.Background(), "tok", "o1")

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "quantity must be positive", appErr.Message)
}

func TestErrorBody_NonJSONGetsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream blew up"))
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.GetProducts(context.Background(), "tok")

	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, "Request failed with status 502", appErr.Message)
}

func TestUnauthorizedResponseDetectable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Token expired"})
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.GetSession(context.Background(), "stale-token")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestNoContentResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.DeactivateProduct(context.Background(), "tok", "p1")
	assert.NoError(t, err)
}

func TestCanceledContextDetectable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	_, err := p.GetProducts(ctx, "tok")
	assert.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
}

func TestDownloadOnboardingReport_StreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/users/onboarding/export", r.URL.Path)
		assert.Equal(t, "14", r.URL.Query().Get("days"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="onboarding.xlsx"`)
		w.Write([]byte("xlsx-bytes"))
	}))
	defer srv.Close()

	p := clients.NewPlatform(srv.URL, 5*time.Second)
	resp, err := p.DownloadOnboardingReport(context.Background(), "tok", 14)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "onboarding.xlsx")
}
