package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdesk/internal/dto"
	"partsdesk/internal/service"
	"partsdesk/internal/stock"
)

func init() { gin.SetMode(gin.TestMode) }

type stubPartService struct {
	createFn func(ctx context.Context, req dto.CreatePartRequest) (*dto.Part, error)
	listFn   func(ctx context.Context) ([]dto.Part, error)
	sellFn   func(ctx context.Context, id int64, price decimal.Decimal) (*dto.Part, error)
	statusFn func(ctx context.Context, id int64, action string) (*dto.Part, error)

	sellCalls int
}

var _ service.PartService = (*stubPartService)(nil)

func (s *stubPartService) Create(ctx context.Context, req dto.CreatePartRequest) (*dto.Part, error) {
	return s.createFn(ctx, req)
}

func (s *stubPartService) List(ctx context.Context) ([]dto.Part, error) {
	return s.listFn(ctx)
}

func (s *stubPartService) Sell(ctx context.Context, id int64, price decimal.Decimal) (*dto.Part, error) {
	s.sellCalls++
	return s.sellFn(ctx, id, price)
}

func (s *stubPartService) UpdateStatus(ctx context.Context, id int64, action string) (*dto.Part, error) {
	return s.statusFn(ctx, id, action)
}

func newPartsRouter(svc service.PartService) *gin.Engine {
	r := gin.New()
	h := NewPartsHandler(svc)
	r.GET("/parts", h.List)
	r.POST("/parts", h.Create)
	r.PATCH("/parts/:id/sell", h.Sell)
	r.PATCH("/parts/:id/status", h.UpdateStatus)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPartsHandler_List(t *testing.T) {
	svc := &stubPartService{listFn: func(ctx context.Context) ([]dto.Part, error) {
		return []dto.Part{
			{ID: 1, Name: "Brake Pad", StockStatus: stock.StatusAvailable},
			{ID: 2, Name: "Oil Filter", StockStatus: stock.StatusReserved},
		}, nil
	}}

	w := doJSON(newPartsRouter(svc), http.MethodGet, "/parts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var parts []dto.Part
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parts))
	require.Len(t, parts, 2)
	assert.Equal(t, "Brake Pad", parts[0].Name)
}

func TestPartsHandler_SellSuccess(t *testing.T) {
	soldDate := "2026-08-31"
	price := decimal.RequireFromString("2500.00")
	svc := &stubPartService{sellFn: func(ctx context.Context, id int64, p decimal.Decimal) (*dto.Part, error) {
		assert.Equal(t, int64(1), id)
		assert.True(t, p.Equal(price))
		return &dto.Part{ID: id, Name: "Brake Pad", StockStatus: stock.StatusSold,
			SoldDate: &soldDate, SoldPrice: &p}, nil
	}}

	w := doJSON(newPartsRouter(svc), http.MethodPatch, "/parts/1/sell",
		dto.SellPartRequest{SoldPrice: price})
	require.Equal(t, http.StatusOK, w.Code)

	var part dto.Part
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &part))
	assert.Equal(t, stock.StatusSold, part.StockStatus)
	require.NotNil(t, part.SoldPrice)
}

func TestPartsHandler_SellUnknownPartIs404(t *testing.T) {
	svc := &stubPartService{sellFn: func(ctx context.Context, id int64, p decimal.Decimal) (*dto.Part, error) {
		return nil, service.ErrPartNotFound
	}}

	w := doJSON(newPartsRouter(svc), http.MethodPatch, "/parts/404/sell",
		dto.SellPartRequest{SoldPrice: decimal.NewFromInt(100)})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Part not found")
}

func TestPartsHandler_SellIllegalTransitionIs409(t *testing.T) {
	svc := &stubPartService{sellFn: func(ctx context.Context, id int64, p decimal.Decimal) (*dto.Part, error) {
		return nil, fmt.Errorf("%w: part is sold", stock.ErrInvalidTransition)
	}}

	w := doJSON(newPartsRouter(svc), http.MethodPatch, "/parts/1/sell",
		dto.SellPartRequest{SoldPrice: decimal.NewFromInt(100)})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPartsHandler_SellBadIDAndBody(t *testing.T) {
	svc := &stubPartService{sellFn: func(ctx context.Context, id int64, p decimal.Decimal) (*dto.Part, error) {
		return nil, errors.New("should not be reached")
	}}
	r := newPartsRouter(svc)

	w := doJSON(r, http.MethodPatch, "/parts/abc/sell",
		dto.SellPartRequest{SoldPrice: decimal.NewFromInt(100)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing sold_price fails validation before the service runs.
	w = doJSON(r, http.MethodPatch, "/parts/1/sell", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Zero(t, svc.sellCalls)
}

func TestPartsHandler_Create(t *testing.T) {
	svc := &stubPartService{createFn: func(ctx context.Context, req dto.CreatePartRequest) (*dto.Part, error) {
		return &dto.Part{ID: 1, Name: req.Name, Manufacturer: req.Manufacturer,
			StockStatus: stock.StatusAvailable}, nil
	}}

	w := doJSON(newPartsRouter(svc), http.MethodPost, "/parts",
		dto.CreatePartRequest{Name: "Brake Pad", Manufacturer: "Bosch"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Validation rejects a too-short name before the service runs.
	w = doJSON(newPartsRouter(svc), http.MethodPost, "/parts",
		dto.CreatePartRequest{Name: "x", Manufacturer: "Bosch"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPartsHandler_UpdateStatusValidatesAction(t *testing.T) {
	svc := &stubPartService{statusFn: func(ctx context.Context, id int64, action string) (*dto.Part, error) {
		return &dto.Part{ID: id, StockStatus: stock.StatusReserved}, nil
	}}
	r := newPartsRouter(svc)

	w := doJSON(r, http.MethodPatch, "/parts/1/status", dto.UpdateStatusRequest{Action: "reserve"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/parts/1/status", dto.UpdateStatusRequest{Action: "sell"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
