package handlers

import (
	"errors"
	"net/http"

	"homely/database"
	"homely/services/catalog"
	"homely/services/lifecycle"
	"homely/services/negotiation"
	"homely/services/tracking"
	"homely/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle wires the HTTP layer to the core services.
type HandlerBundle struct {
	Negotiation negotiation.NegotiationService
	Lifecycle   lifecycle.LifecycleService
	Tracking    tracking.TrackingService
	Catalog     catalog.CatalogService
}

// NewHandlerBundle builds the bundle.
func NewHandlerBundle(
	negotiationSvc negotiation.NegotiationService,
	lifecycleSvc lifecycle.LifecycleService,
	trackingSvc tracking.TrackingService,
	catalogSvc catalog.CatalogService,
) *HandlerBundle {
	return &HandlerBundle{
		Negotiation: negotiationSvc,
		Lifecycle:   lifecycleSvc,
		Tracking:    trackingSvc,
		Catalog:     catalogSvc,
	}
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var negotiationInvalid *negotiation.ValidationError
	var lifecycleInvalid *lifecycle.ValidationError

	switch {
	case errors.As(err, &negotiationInvalid), errors.As(err, &lifecycleInvalid):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, database.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, database.ErrConflict):
		utils.JSONError(c, http.StatusConflict, "conflict", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// HealthHandler reports the latest store health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
