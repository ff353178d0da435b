package handlers

import (
	"io"
	"net/http"
	"strconv"

	"homely/middleware"
	"homely/models"

	"github.com/gin-gonic/gin"
)

// PublishLocationHandler overwrites the calling provider's live location.
func (hb *HandlerBundle) PublishLocationHandler(c *gin.Context) {
	providerID := c.Param("providerId")
	if providerID != middleware.CallerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot publish another provider's location"})
		return
	}

	var coords models.Coordinates
	if err := c.ShouldBindJSON(&coords); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates", "details": err.Error()})
		return
	}
	if err := hb.Tracking.PublishLocation(providerID, coords); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetLocationHandler returns the provider's latest known location.
func (hb *HandlerBundle) GetLocationHandler(c *gin.Context) {
	location, err := hb.Tracking.CurrentLocation(c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

// StreamLocationHandler serves a provider's live location feed as
// server-sent events until the client disconnects.
func (hb *HandlerBundle) StreamLocationHandler(c *gin.Context) {
	updates := make(chan *models.ProviderLocation, 8)
	sub, err := hb.Tracking.Subscribe(c.Param("providerId"), func(loc *models.ProviderLocation) {
		select {
		case updates <- loc:
		default: // slow consumer; drop in favor of fresher positions
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Cancel()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case loc := <-updates:
			c.SSEvent("location", loc)
			return true
		}
	})
}

// ETAHandler estimates travel time between two points.
func (hb *HandlerBundle) ETAHandler(c *gin.Context) {
	origin, ok := parseCoords(c, "originLat", "originLng")
	if !ok {
		return
	}
	destination, ok := parseCoords(c, "destLat", "destLng")
	if !ok {
		return
	}

	eta, err := hb.Tracking.ETA(origin, destination)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eta)
}

func parseCoords(c *gin.Context, latParam, lngParam string) (models.Coordinates, bool) {
	lat, latErr := strconv.ParseFloat(c.Query(latParam), 64)
	lng, lngErr := strconv.ParseFloat(c.Query(lngParam), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing or malformed query parameters: " + latParam + ", " + lngParam,
		})
		return models.Coordinates{}, false
	}
	return models.Coordinates{Latitude: lat, Longitude: lng}, true
}
