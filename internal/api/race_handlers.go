// internal/api/race_handlers.go
// Race CRUD handlers (spec.md §6), including the start_time cascade command.

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/services"
	"github.com/nsf-ski/race-service/internal/utils"
)

// HandleCreateRace inserts a race directly.
func HandleCreateRace(svc *services.RaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var race models.Race
		if err := c.ShouldBindJSON(&race); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}
		race.ID = utils.GenerateUUID()
		if err := svc.Create(c.Request.Context(), &race); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/races/%s", race.ID))
		c.JSON(http.StatusCreated, race)
	}
}

// HandleListRaces lists races, optionally filtered by event, raceplan, or raceclass.
func HandleListRaces(svc *services.RaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repositories.RaceFilter{
			EventID:    c.Query("eventId"),
			RaceplanID: c.Query("raceplanId"),
			Raceclass:  c.Query("raceclass"),
		}
		races, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, races)
	}
}

// HandleGetRace retrieves a single race.
func HandleGetRace(svc *services.RaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		race, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, race)
	}
}

// HandleUpdateRaceStartTime cascades a new start_time to the race's
// start-entries (spec.md §4.G).
func HandleUpdateRaceStartTime(svc *services.RaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			StartTime string `json:"start_time" binding:"required"`
			Interval  string `json:"interval"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}

		newStart, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid start_time: %v", err))
			return
		}

		var interval time.Duration
		if req.Interval != "" {
			interval, err = time.ParseDuration(req.Interval)
			if err != nil {
				middleware.RespondError(c, apperrors.Validationf("invalid interval: %v", err))
				return
			}
		}

		race, err := svc.UpdateStartTime(c.Request.Context(), c.Param("id"), newStart, interval)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, race)
	}
}

// HandleDeleteRace deletes a race directly.
func HandleDeleteRace(svc *services.RaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
