package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"partsdesk/internal/apierror"
	"partsdesk/internal/service"
)

// PriceHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type PriceHandler struct{ pricing service.PricingService }

func NewPriceHandler(pricing service.PricingService) *PriceHandler {
	return &PriceHandler{pricing: pricing}
}

// GetPrice godoc
// @Summary      Recommended price for a part (no authentication)
// @Tags         price
// @Produce      json
// @Param        id path string true "Part id"
// @Success      200 {object} dto.PartPriceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /parts/{id}/price [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	id, ok := partID(c)
	if !ok {
		return
	}
	resp, err := h.pricing.PriceCard(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPartNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Part not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute price"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
