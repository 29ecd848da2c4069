// internal/api/startlist_handlers.go
// Startlist handlers: CRUD plus the generate-startlist-for-event command
// (spec.md §6, §4.E).

package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/services"
	"github.com/nsf-ski/race-service/internal/utils"
)

// HandleCreateStartlist inserts a startlist directly.
func HandleCreateStartlist(svc *services.StartlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list models.Startlist
		if err := c.ShouldBindJSON(&list); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}
		list.ID = utils.GenerateUUID()
		if err := svc.Create(c.Request.Context(), &list); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/startlists/%s", list.ID))
		c.JSON(http.StatusCreated, list)
	}
}

// HandleListStartlists lists startlists, optionally filtered by event id.
func HandleListStartlists(svc *services.StartlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lists, err := svc.List(c.Request.Context(), c.Query("eventId"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lists)
	}
}

// HandleGetStartlist retrieves a single startlist.
func HandleGetStartlist(svc *services.StartlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// HandleUpdateStartlist replaces a startlist's mutable fields.
func HandleUpdateStartlist(svc *services.StartlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list models.Startlist
		if err := c.ShouldBindJSON(&list); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}
		list.ID = c.Param("id")
		if err := svc.Update(c.Request.Context(), &list); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleDeleteStartlist deletes a startlist directly.
func HandleDeleteStartlist(svc *services.StartlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleGenerateStartlistForEvent runs the generate_startlist_for_event command.
func HandleGenerateStartlistForEvent(svc *services.StartlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			EventID string `json:"event_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}

		list, err := svc.GenerateForEvent(c.Request.Context(), req.EventID)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}

		c.Header("Location", fmt.Sprintf("/startlists/%s", list.ID))
		c.JSON(http.StatusCreated, list)
	}
}
