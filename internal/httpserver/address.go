package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"takeout-storefront/internal/domain"
)

type addressListResponse struct {
	Data       []domain.ShippingAddress `json:"data"`
	SelectedID string                   `json:"selectedId,omitempty"`
}

func listAddressesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := addressListResponse{Data: deps.Addresses.Addresses()}
		if selected, ok := deps.Addresses.Selected(); ok {
			resp.SelectedID = selected.ID
		}
		c.JSON(http.StatusOK, resp)
	}
}

func saveAddressHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addr domain.ShippingAddress
		if err := c.ShouldBindJSON(&addr); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid address payload: "+err.Error()))
			return
		}
		saved, err := deps.Addresses.Save(c.Request.Context(), addr)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func removeAddressHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Addresses.Remove(c.Request.Context(), c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

func selectAddressHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Addresses.Select(c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

func getDeliveryLocationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		loc, ok := deps.Addresses.DeliveryLocation()
		if !ok {
			writeError(c, domain.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, loc)
	}
}

func setDeliveryLocationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var loc domain.DeliveryLocation
		if err := c.ShouldBindJSON(&loc); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid location payload: "+err.Error()))
			return
		}
		if loc.Address == "" {
			writeError(c, domain.NewError(domain.CodeValidation, "address required"))
			return
		}
		deps.Addresses.SetDeliveryLocation(loc)
		c.JSON(http.StatusOK, loc)
	}
}

func clearDeliveryLocationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Addresses.ClearDeliveryLocation()
		c.Status(http.StatusNoContent)
	}
}

func geocodeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := deps.Geo.Forward(c.Request.Context(), c.Query("q"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func reverseGeocodeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr != nil || lngErr != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "lat and lng must be numbers"))
			return
		}
		result, err := deps.Geo.Reverse(c.Request.Context(), lat, lng)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
