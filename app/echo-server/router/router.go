package router

import (
	"lexiDaily/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/logout", handler.Logout, authRequired)

	api.GET("/me", handler.Me, authRequired)
	api.PUT("/me", handler.UpdateMe, authRequired)
}

func SetupWordRoutes(api *echo.Group, handler *rest.WordOfDayHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/words/today", handler.GetGlobalWord)
	api.GET("/me/word", handler.GetUserWord, authRequired)
}

func SetupScheduleRoutes(api *echo.Group, handler *rest.ScheduleHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/me/schedule", handler.GetSchedule, authRequired)
	api.PUT("/me/schedule", handler.SetSchedule, authRequired)
}

func SetupAdminWordRoutes(api *echo.Group, handler *rest.WordAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	words := api.Group("/admin/words", authRequired, adminOnly)

	words.GET("", handler.GetAllWords)
	words.GET("/:id", handler.GetWordByID)
	words.POST("", handler.CreateWord)
	words.PUT("/:id", handler.UpdateWord)
	words.DELETE("/:id", handler.DeleteWord)
	words.PATCH("/:id/enrichment", handler.UpdateEnrichment)
	words.PATCH("/:id/enabled", handler.SetEnabled)
}
