package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"parkdesk/internal/apierr"
	"parkdesk/internal/entities"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req entities.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "demo@parkdesk.local", req.Email)

		json.NewEncoder(w).Encode(entities.LoginResponse{
			Message: "Login successful", UserID: 7, FullName: "Demo User", Token: "tok123",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), "demo@parkdesk.local", "demo1234")
	require.NoError(t, err)
	require.Equal(t, 7, resp.UserID)
	require.Equal(t, "tok123", c.token)
}

func TestBearerTokenSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(entities.LotsResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok123")
	_, err := c.Lots(context.Background())
	require.NoError(t, err)
}

func TestSearchLotsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/lots/search", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "central", q.Get("name"))
		require.Equal(t, "380001", q.Get("pincode"))
		require.Equal(t, "true", q.Get("available_only"))
		json.NewEncoder(w).Encode(entities.LotsResponse{Lots: []entities.ParkingLot{{ID: 1}}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	lots, err := c.SearchLots(context.Background(), entities.LotFilter{
		Name: "central", PinCode: "380001", AvailableOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, lots, 1)
}

func TestServerErrorKeptVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(entities.ErrorResponse{
			Error:   "Could not vacate spot",
			Details: "no active reservation for this spot and vehicle",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Vacate(context.Background(), entities.VacateRequest{UserID: 1})
	require.Error(t, err)

	apiErr, ok := apierr.FromServer(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.Code)
	require.Equal(t, "Could not vacate spot", apiErr.Message)
	require.Equal(t, "no active reservation for this spot and vehicle", apiErr.Details)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway blew up", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Lots(context.Background())
	apiErr, ok := apierr.FromServer(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, apiErr.Code)
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestReserve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/user/reserve", r.URL.Path)
		var req entities.ReserveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "GJ05AB1234", req.VehicleNumber)
		json.NewEncoder(w).Encode(entities.MessageResponse{Message: "Spot reserved successfully", SpotID: 4})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Reserve(context.Background(), entities.ReserveRequest{
		UserID: 1, LotID: 2, VehicleNumber: "GJ05AB1234",
	})
	require.NoError(t, err)
	require.Equal(t, 4, resp.SpotID)
}

func TestNoRequestIDOnGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode(entities.SummaryResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Summary(context.Background(), 1)
	require.NoError(t, err)
}
