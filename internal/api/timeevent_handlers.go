// internal/api/timeevent_handlers.go
// Time-event handlers (spec.md §6: /time-events[/{id}]). POST ingests a new
// reading through internal/timeevent.Processor; a rejected (unrecognized
// timing point) reading is still persisted with status=Error and returns
// 422, matching spec.md §4.F.

package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/services"
)

// HandleIngestTimeEvent accepts a new time-event reading.
func HandleIngestTimeEvent(svc *services.TimeEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event models.TimeEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}

		stored, err := svc.Ingest(c.Request.Context(), &event)
		if err != nil {
			if stored != nil {
				c.Header("Location", fmt.Sprintf("/time-events/%s", stored.ID))
			}
			middleware.RespondError(c, err)
			return
		}

		c.Header("Location", fmt.Sprintf("/time-events/%s", stored.ID))
		c.JSON(http.StatusCreated, stored)
	}
}

// HandleListTimeEvents lists time-events, filterable by race and timing point.
func HandleListTimeEvents(svc *services.TimeEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repositories.TimeEventFilter{
			EventID:     c.Query("eventId"),
			RaceID:      c.Query("raceId"),
			TimingPoint: c.Query("timingPoint"),
		}
		events, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// HandleGetTimeEvent retrieves a single time-event.
func HandleGetTimeEvent(svc *services.TimeEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// HandleDeleteTimeEvent deletes a time-event, triggering re-ranking of its
// (race, timing_point) pair per spec.md §4.F.
func HandleDeleteTimeEvent(svc *services.TimeEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
