package handlers

import (
	"errors"
	"net/http"

	"homely/middleware"
	"homely/services/lifecycle"

	"github.com/gin-gonic/gin"
)

// ScheduleBookingHandler creates a confirmed booking directly, without a
// bidding round.
func (hb *HandlerBundle) ScheduleBookingHandler(c *gin.Context) {
	var input lifecycle.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	input.UserID = middleware.CallerID(c)

	booking, err := hb.Lifecycle.ScheduleBooking(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListClientBookingsHandler returns the caller's bookings, triage-sorted.
func (hb *HandlerBundle) ListClientBookingsHandler(c *gin.Context) {
	bookings, err := hb.Lifecycle.ListForClient(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListActiveBookingsHandler returns the caller's active view: no cancelled
// rows, no already-rated or skipped completed rows.
func (hb *HandlerBundle) ListActiveBookingsHandler(c *gin.Context) {
	bookings, err := hb.Lifecycle.ListActiveForClient(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListProviderBookingsHandler returns the calling provider's active jobs.
func (hb *HandlerBundle) ListProviderBookingsHandler(c *gin.Context) {
	bookings, err := hb.Lifecycle.ListForProvider(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateBookingStatusHandler applies a booking status transition. A
// completed recurring booking may come back with a warning when its
// successor could not be created yet.
func (hb *HandlerBundle) UpdateBookingStatusHandler(c *gin.Context) {
	bookingID := c.Param("id")
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	booking, err := hb.Lifecycle.UpdateStatus(bookingID, input.Status)
	if err != nil {
		var partial *lifecycle.PartialFailure
		if errors.As(err, &partial) {
			c.JSON(http.StatusOK, gin.H{"booking": booking, "warning": partial.Warning})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// SubmitRatingHandler stores the caller's review of a completed booking.
func (hb *HandlerBundle) SubmitRatingHandler(c *gin.Context) {
	bookingID := c.Param("id")
	var input lifecycle.RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.Lifecycle.SubmitRating(bookingID, middleware.CallerID(c), input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SkipRatingHandler marks a completed booking as skipped for rating.
func (hb *HandlerBundle) SkipRatingHandler(c *gin.Context) {
	bookingID := c.Param("id")
	if err := hb.Lifecycle.SkipRating(bookingID, middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
