package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListServicesHandler returns the full service catalog.
func (hb *HandlerBundle) ListServicesHandler(c *gin.Context) {
	services, err := hb.Catalog.ListServices()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetServiceHandler returns one catalog entry.
func (hb *HandlerBundle) GetServiceHandler(c *gin.Context) {
	service, err := hb.Catalog.GetService(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// ProvidersForServiceHandler returns providers offering a service, with
// their review aggregates.
func (hb *HandlerBundle) ProvidersForServiceHandler(c *gin.Context) {
	providers, err := hb.Catalog.ProvidersForService(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}
