// internal/api/raceresult_handlers.go
// Race-result handlers, scoped under a race (spec.md §6:
// /races/{rid}/race-results[/{id}], query params timingPoint, idsOnly).
// RaceResult has no independent create or update path: those only happen
// through internal/timeevent.Processor as time-events are ingested or
// deleted. The one direct write here is HandleDeleteRaceResult.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/services"
)

// HandleListRaceResults lists race results for a race, optionally filtered
// by timingPoint, optionally returning only the ranking-sequence ids.
func HandleListRaceResults(svc *services.RaceResultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := svc.ListByRace(c.Request.Context(), c.Param("rid"), c.Query("timingPoint"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}

		if c.Query("idsOnly") == "true" {
			ids := make([]string, 0, len(results))
			for _, r := range results {
				ids = append(ids, r.RankingSequence...)
			}
			c.JSON(http.StatusOK, ids)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

// HandleGetRaceResult retrieves a single race result.
func HandleGetRaceResult(svc *services.RaceResultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleDeleteRaceResult removes a race result directly. Prefer deleting the
// time-events that produced it so the (race, timing_point) re-ranks cleanly.
func HandleDeleteRaceResult(svc *services.RaceResultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
