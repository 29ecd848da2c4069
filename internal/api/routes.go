// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/middleware"
	"github.com/nsf-ski/race-service/internal/services"
)

// RegisterRaceplanRoutes registers raceplan-related routes
func RegisterRaceplanRoutes(router *gin.RouterGroup, svc *services.Container) {
	raceplans := router.Group("/raceplans")
	raceplans.GET("", HandleListRaceplans(svc.Raceplan))
	raceplans.GET("/:id", HandleGetRaceplan(svc.Raceplan))

	raceplans.Use(middleware.RequireAuth(svc.Users))
	raceplans.POST("", HandleCreateRaceplan(svc.Raceplan))
	raceplans.PUT("/:id", HandleUpdateRaceplan(svc.Raceplan))
	raceplans.DELETE("/:id", HandleDeleteRaceplan(svc.Raceplan))
	raceplans.POST("/generate-raceplan-for-event", HandleGenerateRaceplanForEvent(svc.Raceplan))
}

// RegisterStartlistRoutes registers startlist-related routes
func RegisterStartlistRoutes(router *gin.RouterGroup, svc *services.Container) {
	startlists := router.Group("/startlists")
	startlists.GET("", HandleListStartlists(svc.Startlist))
	startlists.GET("/:id", HandleGetStartlist(svc.Startlist))

	startlists.Use(middleware.RequireAuth(svc.Users))
	startlists.POST("", HandleCreateStartlist(svc.Startlist))
	startlists.PUT("/:id", HandleUpdateStartlist(svc.Startlist))
	startlists.DELETE("/:id", HandleDeleteStartlist(svc.Startlist))
	startlists.POST("/generate-startlist-for-event", HandleGenerateStartlistForEvent(svc.Startlist))
}

// RegisterRaceRoutes registers race, start-entry, and race-result routes.
func RegisterRaceRoutes(router *gin.RouterGroup, svc *services.Container) {
	races := router.Group("/races")
	races.GET("", HandleListRaces(svc.Race))
	races.GET("/:id", HandleGetRace(svc.Race))
	races.GET("/:rid/start-entries", HandleListStartEntries(svc.StartEntry))
	races.GET("/:rid/start-entries/:id", HandleGetStartEntry(svc.StartEntry))
	races.GET("/:rid/race-results", HandleListRaceResults(svc.RaceResult))
	races.GET("/:rid/race-results/:id", HandleGetRaceResult(svc.RaceResult))

	races.Use(middleware.RequireAuth(svc.Users))
	races.POST("", HandleCreateRace(svc.Race))
	races.PUT("/:id", HandleUpdateRaceStartTime(svc.Race))
	races.DELETE("/:id", HandleDeleteRace(svc.Race))

	races.POST("/:rid/start-entries", HandleCreateStartEntry(svc.StartEntry))
	races.PUT("/:rid/start-entries/:id", HandleUpdateStartEntryStatus(svc.StartEntry))
	races.DELETE("/:rid/start-entries/:id", HandleDeleteStartEntry(svc.StartEntry))

	races.DELETE("/:rid/race-results/:id", HandleDeleteRaceResult(svc.RaceResult))
}

// RegisterTimeEventRoutes registers time-event routes
func RegisterTimeEventRoutes(router *gin.RouterGroup, svc *services.Container) {
	timeEvents := router.Group("/time-events")
	timeEvents.GET("", HandleListTimeEvents(svc.TimeEvent))
	timeEvents.GET("/:id", HandleGetTimeEvent(svc.TimeEvent))

	timeEvents.Use(middleware.RequireAuth(svc.Users))
	timeEvents.POST("", HandleIngestTimeEvent(svc.TimeEvent))
	timeEvents.DELETE("/:id", HandleDeleteTimeEvent(svc.TimeEvent))
}

// RegisterAdminRoutes registers the read-only admin/stats routes.
func RegisterAdminRoutes(router *gin.RouterGroup, svc *services.Container) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAuth(svc.Users))
	admin.GET("/stats", HandleGetPlatformStats(svc.Analytics))
}
