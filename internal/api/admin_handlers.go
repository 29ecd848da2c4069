// internal/api/admin_handlers.go
// Read-only admin/stats surface (SPEC_FULL.md §9 supplemented feature).

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/services"
)

// HandleGetPlatformStats returns aggregate counters across the platform.
func HandleGetPlatformStats(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetPlatformStats(c.Request.Context())
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
