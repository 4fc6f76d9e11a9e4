package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/arbiter"
	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/property"
)

type BookingHandler struct {
	Arbiter    *arbiter.Service
	Properties property.Repository
	Clock      func() time.Time
}

type createBookingRequest struct {
	PropertyID      string `json:"property_id" binding:"required"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	Guests          int    `json:"guests" binding:"required,gt=0"`
	TotalPriceCents int64  `json:"total_price_cents" binding:"gte=0"`
	SpecialRequests string `json:"special_requests" binding:"max=500"`
}

func (h BookingHandler) Create(c *gin.Context) {
	ident, ok := requireIdentity(c, booking.RoleTraveler)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}

	// Capacity is a listing concern; checked here at the validation
	// boundary, not inside the arbiter.
	prop, err := h.Properties.ByID(c.Request.Context(), property.PropertyID(req.PropertyID))
	if err != nil {
		writeError(c, err)
		return
	}
	if prop.MaxGuests > 0 && req.Guests > prop.MaxGuests {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guests exceed property capacity"})
		return
	}

	b, err := h.Arbiter.CreateBooking(c.Request.Context(), arbiter.CreateParams{
		PropertyID:      property.PropertyID(req.PropertyID),
		TravelerID:      ident.UserID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		TotalPriceCents: req.TotalPriceCents,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(b))
}

func (h BookingHandler) Accept(c *gin.Context) {
	ident, ok := requireIdentity(c, booking.RoleOwner)
	if !ok {
		return
	}
	b, err := h.Arbiter.AcceptBooking(c.Request.Context(), booking.BookingID(c.Param("id")), ident.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b))
}

type cancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	ident, ok := requireIdentity(c, "")
	if !ok {
		return
	}
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	b, err := h.Arbiter.CancelBooking(c.Request.Context(), booking.BookingID(c.Param("id")), ident.UserID, ident.Role, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b))
}

func (h BookingHandler) Get(c *gin.Context) {
	if _, ok := requireIdentity(c, ""); !ok {
		return
	}
	b, err := h.Arbiter.GetBooking(c.Request.Context(), booking.BookingID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b))
}

func (h BookingHandler) ListMine(c *gin.Context) {
	ident, ok := requireIdentity(c, booking.RoleTraveler)
	if !ok {
		return
	}
	bs, err := h.Arbiter.ListTravelerBookings(c.Request.Context(), ident.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": h.toResponses(bs)})
}

func (h BookingHandler) ListHosted(c *gin.Context) {
	ident, ok := requireIdentity(c, booking.RoleOwner)
	if !ok {
		return
	}
	bs, err := h.Arbiter.ListOwnerBookings(c.Request.Context(), ident.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": h.toResponses(bs)})
}

type bookingResponse struct {
	ID                 string     `json:"id"`
	PropertyID         string     `json:"property_id"`
	TravelerID         string     `json:"traveler_id"`
	CheckIn            string     `json:"check_in"`
	CheckOut           string     `json:"check_out"`
	Nights             int        `json:"nights"`
	Guests             int        `json:"guests"`
	TotalPriceCents    int64      `json:"total_price_cents"`
	SpecialRequests    string     `json:"special_requests,omitempty"`
	Status             string     `json:"status"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (h BookingHandler) toResponse(b *booking.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              string(b.ID),
		PropertyID:      string(b.PropertyID),
		TravelerID:      b.TravelerID,
		CheckIn:         b.Range.CheckIn.Format(dateLayout),
		CheckOut:        b.Range.CheckOut.Format(dateLayout),
		Nights:          b.Range.Nights(),
		Guests:          b.Guests,
		TotalPriceCents: b.TotalPriceCents,
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.EffectiveStatus(h.now())),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Status == booking.StatusCancelled {
		resp.CancelledBy = string(b.CancelledBy)
		resp.CancellationReason = b.CancellationReason
		cancelledAt := b.CancelledAt
		resp.CancelledAt = &cancelledAt
	}
	return resp
}

func (h BookingHandler) toResponses(bs []*booking.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, h.toResponse(b))
	}
	return out
}

func (h BookingHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

var _ BookingHTTP = BookingHandler{}
