// internal/api/startentry_handlers.go
// Start-entry handlers, scoped under a race (spec.md §6: /races/{rid}/start-entries[/{id}]).

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

// HandleCreateStartEntry inserts a start entry into a race.
func HandleCreateStartEntry(svc *services.StartEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entry models.StartEntry
		if err := c.ShouldBindJSON(&entry); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}
		entry.ID = utils.GenerateUUID()
		entry.RaceID = c.Param("rid")
		if err := svc.Create(c.Request.Context(), &entry); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/races/%s/start-entries/%s", entry.RaceID, entry.ID))
		c.JSON(http.StatusCreated, entry)
	}
}

// HandleListStartEntries lists start entries for a race.
func HandleListStartEntries(svc *services.StartEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svc.ListByRace(c.Request.Context(), c.Param("rid"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// HandleGetStartEntry retrieves a single start entry.
func HandleGetStartEntry(svc *services.StartEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// HandleUpdateStartEntryStatus records a status change (DNS/DNF/DSQ/OK).
func HandleUpdateStartEntryStatus(svc *services.StartEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status  models.StartEntryStatus `json:"status" binding:"required"`
			UserID  string                  `json:"user_id"`
			Comment string                  `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, apperrors.Validationf("invalid request body: %v", err))
			return
		}

		userID := req.UserID
		if id, ok := c.Get("user_id"); ok {
			userID = id.(string)
		}

		entry, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, userID, req.Comment)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// HandleDeleteStartEntry removes a start entry and syncs its race's roster.
func HandleDeleteStartEntry(svc *services.StartEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
