// internal/api/raceplan_handlers.go
// Raceplan HTTP handlers: CRUD plus the generate-raceplan-for-event command
// (spec.md §6, §4.G).

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

// HandleCreateRaceplan inserts a raceplan directly.
func HandleCreateRaceplan(svc *services.RaceplanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plan models.Raceplan
		if err := c.ShouldBindJSON(&plan); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}
		plan.ID = utils.GenerateUUID()
		if err := svc.Create(c.Request.Context(), &plan); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/raceplans/%s", plan.ID))
		c.JSON(http.StatusCreated, plan)
	}
}

// HandleListRaceplans lists raceplans, optionally filtered by event id.
func HandleListRaceplans(svc *services.RaceplanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := svc.List(c.Request.Context(), c.Query("eventId"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, plans)
	}
}

// HandleGetRaceplan retrieves a single raceplan.
func HandleGetRaceplan(svc *services.RaceplanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}

// HandleUpdateRaceplan replaces a raceplan's mutable fields.
func HandleUpdateRaceplan(svc *services.RaceplanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plan models.Raceplan
		if err := c.ShouldBindJSON(&plan); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}
		plan.ID = c.Param("id")
		if err := svc.Update(c.Request.Context(), &plan); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleDeleteRaceplan deletes a raceplan and cascades per spec.md §4.G.
func HandleDeleteRaceplan(svc *services.RaceplanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleGenerateRaceplanForEvent runs the generate_raceplan_for_event command.
func HandleGenerateRaceplanForEvent(svc *services.RaceplanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			EventID string `json:"event_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}

		plan, races, err := svc.GenerateForEvent(c.Request.Context(), req.EventID)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}

		c.Header("Location", fmt.Sprintf("/raceplans/%s", plan.ID))
		c.JSON(http.StatusCreated, gin.H{
			"raceplan": plan,
			"races":    races,
		})
	}
}
