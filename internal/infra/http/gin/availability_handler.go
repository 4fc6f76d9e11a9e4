package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/arbiter"
	"stayfinder/internal/domain/property"
	"stayfinder/internal/domain/shared/daterange"
)

// AvailabilityHandler serves the search path: callers pass candidate
// property ids and a date range and get back the free subset.
type AvailabilityHandler struct {
	Arbiter *arbiter.Service
}

func (h AvailabilityHandler) Filter(c *gin.Context) {
	rawIDs := strings.Split(c.Query("property_ids"), ",")
	candidates := make([]property.PropertyID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if raw = strings.TrimSpace(raw); raw != "" {
			candidates = append(candidates, property.PropertyID(raw))
		}
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property_ids is required"})
		return
	}
	checkIn, err := parseDate(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := parseDate(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}
	r, err := daterange.New(checkIn, checkOut)
	if err != nil {
		writeError(c, err)
		return
	}

	available, err := h.Arbiter.FilterAvailable(c.Request.Context(), candidates, r)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]string, len(available))
	for i, id := range available {
		out[i] = string(id)
	}
	c.JSON(http.StatusOK, gin.H{"available": out})
}

var _ AvailabilityHTTP = AvailabilityHandler{}
