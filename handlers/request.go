package handlers

import (
	"errors"
	"net/http"

	"homely/middleware"
	"homely/services/negotiation"

	"github.com/gin-gonic/gin"
)

// CreateRequestHandler posts a new open service request for the caller.
func (hb *HandlerBundle) CreateRequestHandler(c *gin.Context) {
	var input negotiation.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	input.ClientID = middleware.CallerID(c)

	req, err := hb.Negotiation.CreateRequest(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListOpenRequestsHandler returns every request providers can bid on.
func (hb *HandlerBundle) ListOpenRequestsHandler(c *gin.Context) {
	requests, err := hb.Negotiation.ListOpenRequests()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListClientRequestsHandler returns the caller's still-open requests.
func (hb *HandlerBundle) ListClientRequestsHandler(c *gin.Context) {
	requests, err := hb.Negotiation.ListClientRequests(middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// PlaceBidHandler records the calling provider's offer on an open request.
func (hb *HandlerBundle) PlaceBidHandler(c *gin.Context) {
	requestID := c.Param("id")
	var input struct {
		Name        string  `json:"name"`
		AvatarURL   string  `json:"avatarUrl"`
		OfferAmount float64 `json:"offerAmount"`
		Comment     string  `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	bidder := negotiation.Bidder{
		ProviderID: middleware.CallerID(c),
		Name:       input.Name,
		AvatarURL:  input.AvatarURL,
	}
	if err := hb.Negotiation.PlaceBid(requestID, bidder, input.OfferAmount, input.Comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AcceptBidHandler converts a provider's bid into a confirmed booking.
func (hb *HandlerBundle) AcceptBidHandler(c *gin.Context) {
	requestID := c.Param("id")
	var input struct {
		ProviderID string `json:"providerId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProviderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "providerId is required"})
		return
	}

	booking, err := hb.Negotiation.AcceptBid(requestID, input.ProviderID)
	if err != nil {
		var partial *negotiation.PartialFailure
		if errors.As(err, &partial) {
			// The booking stands; the request flip is being reconciled.
			c.JSON(http.StatusOK, gin.H{"booking": booking, "warning": partial.Warning})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// CancelRequestHandler withdraws the caller's open request from bidding.
func (hb *HandlerBundle) CancelRequestHandler(c *gin.Context) {
	requestID := c.Param("id")
	if err := hb.Negotiation.CancelRequest(requestID, middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
