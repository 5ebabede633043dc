package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"partsdesk/internal/apierror"
	"partsdesk/internal/dto"
	"partsdesk/internal/middleware"
	"partsdesk/internal/service"
	"partsdesk/internal/stock"
)

type PartsHandler struct{ svc service.PartService }

func NewPartsHandler(svc service.PartService) *PartsHandler { return &PartsHandler{svc: svc} }

// List godoc
// @Summary      List all parts
// @Description  Returns every part in insertion order. Public: the inventory view does not require a credential.
// @Tags         parts
// @Produce      json
// @Success      200 {array} dto.Part
// @Router       /parts [get]
func (h *PartsHandler) List(c *gin.Context) {
	parts, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list parts"))
		return
	}
	c.JSON(http.StatusOK, parts)
}

// Create godoc
// @Summary      Register a new part
// @Description  Registers a part as stock (available or reserved). Parts cannot be registered as sold.
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePartRequest true "Part details"
// @Success      201 {object} dto.Part
// @Failure      400 {object} apierror.APIError
// @Router       /parts [post]
func (h *PartsHandler) Create(c *gin.Context) {
	var req dto.CreatePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Sell godoc
// @Summary      Sell a part
// @Description  Transitions a part to sold, stamping sold_date and sold_price. Fails when the part is already sold or the price is not positive.
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Part id"
// @Param        body body dto.SellPartRequest true "Sold price"
// @Success      200 {object} dto.Part
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /parts/{id}/sell [patch]
func (h *PartsHandler) Sell(c *gin.Context) {
	id, ok := partID(c)
	if !ok {
		return
	}
	var req dto.SellPartRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Sell(c.Request.Context(), id, req.SoldPrice)
	if err != nil {
		writePartError(c, err)
		return
	}
	if claims := middleware.GetClaims(c); claims != nil {
		log.Info().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("username", claims.Username).
			Int64("part_id", id).
			Str("sold_price", req.SoldPrice.String()).
			Msg("part sold")
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Reserve or release a part
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Part id"
// @Param        body body dto.UpdateStatusRequest true "reserve | release"
// @Success      200 {object} dto.Part
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /parts/{id}/status [patch]
func (h *PartsHandler) UpdateStatus(c *gin.Context) {
	id, ok := partID(c)
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Action)
	if err != nil {
		writePartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func partID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid part id"))
		return 0, false
	}
	return id, true
}

func writePartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPartNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Part not found"))
	case errors.Is(err, stock.ErrInvalidTransition):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
