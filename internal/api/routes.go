package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	scheduleService service.ScheduleService,
	exportService service.ExportService,
	feedService service.FeedService,
) {
	authHandler := NewAuthHandler(authService)
	scheduleHandler := NewScheduleHandler(scheduleService, feedService)
	exportHandler := NewExportHandler(exportService)

	authMiddleware := AuthMiddleware(jwtSecret)
	coachOnly := RoleMiddleware(domain.RoleCoach)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/team/athletes", coachOnly, authHandler.GetAthletes)

		// Coaches edit their schedule, athletes read their coach's.
		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("/sessions", scheduleHandler.GetSessions)
			scheduleGroup.GET("/sessions/:sessionId", scheduleHandler.GetSession)
			scheduleGroup.POST("/sessions", coachOnly, scheduleHandler.CreateSession)
			scheduleGroup.PUT("/sessions/:sessionId", coachOnly, scheduleHandler.UpdateSession)
			scheduleGroup.DELETE("/sessions/:sessionId", coachOnly, scheduleHandler.DeleteSession)

			scheduleGroup.GET("/series", coachOnly, scheduleHandler.GetSeries)
			scheduleGroup.POST("/series", coachOnly, scheduleHandler.CreateSeries)
			scheduleGroup.DELETE("/series/:seriesId", coachOnly, scheduleHandler.DeleteSeries)

			scheduleGroup.GET("/calendar.ics", scheduleHandler.GetCalendarFeed)
		}

		exportGroup := protected.Group("/schedule/exports")
		{
			exportGroup.POST("", exportHandler.CreateExport)
			exportGroup.GET("", exportHandler.GetExports)
			exportGroup.GET("/:exportId", exportHandler.GetExport)
			exportGroup.DELETE("/:exportId", coachOnly, exportHandler.DeleteExport)
		}
	}
}
