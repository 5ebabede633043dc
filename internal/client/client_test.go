package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdesk/internal/dto"
	"partsdesk/internal/stock"
)

func TestClient_FetchParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/parts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]dto.Part{
			{ID: 1, Name: "Brake Pad", Manufacturer: "Bosch", StockStatus: stock.StatusAvailable},
			{ID: 2, Name: "Oil Filter", Manufacturer: "Mann", StockStatus: stock.StatusReserved},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	parts, err := c.FetchParts(context.Background())
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, int64(1), parts[0].ID)
	assert.Equal(t, stock.StatusReserved, parts[1].StockStatus)
}

func TestClient_SellPartSendsBearerAndBody(t *testing.T) {
	soldDate := "2026-08-31"
	soldPrice := decimal.RequireFromString("2500.00")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/parts/1/sell", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var req dto.SellPartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.SoldPrice.Equal(soldPrice))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dto.Part{
			ID: 1, Name: "Brake Pad", Manufacturer: "Bosch",
			StockStatus: stock.StatusSold, SoldDate: &soldDate, SoldPrice: &soldPrice,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	part, err := c.SellPart(context.Background(), 1, soldPrice)
	require.NoError(t, err)
	assert.Equal(t, stock.StatusSold, part.StockStatus)
	require.NotNil(t, part.SoldDate)
	assert.Equal(t, soldDate, *part.SoldDate)
}

func TestClient_SellPartEmptyBodyIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parts/1/sell", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	part, err := c.SellPart(context.Background(), 1, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Nil(t, part, "no body means the caller computes the sold record")
}

func TestClient_NonSuccessStatusCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "part already sold"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	_, err := c.SellPart(context.Background(), 1, decimal.NewFromInt(100))
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusConflict, terr.Status)
	assert.Contains(t, terr.Error(), "part already sold")
}

func TestClient_UnreachableBackend(t *testing.T) {
	// Server started then immediately closed: the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.FetchParts(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, terr.Status, "no HTTP status when the request never completed")
}

func TestClient_LoginInstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "operator", req.Username)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dto.LoginResponse{Token: "tok-abc", TokenType: "bearer"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.False(t, c.HasToken())
	require.NoError(t, c.Login(context.Background(), "operator", "s3cret"))
	assert.True(t, c.HasToken())
}

func TestClient_LoginFailureLeavesNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid credentials"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Login(context.Background(), "operator", "wrong")
	require.Error(t, err)
	assert.False(t, c.HasToken())
}
