package routes

import (
	"github.com/gin-gonic/gin"

	"plumberf/internal/api/v1/handlers"
	"plumberf/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	JobVideoService services.JobVideoService
	LessonService   services.LessonService
	CatalogService  services.CatalogService
}

// RegisterRoutes registers the job video, lesson and catalog endpoints.
func RegisterRoutes(router gin.IRouter, container *ServiceContainer) {
	jobVideoHandler := handlers.NewJobVideoHandler(container.JobVideoService)
	jobVideos := router.Group("/job-videos")
	{
		jobVideos.POST("/initiate", jobVideoHandler.Initiate)
		jobVideos.POST("", jobVideoHandler.Create)
		jobVideos.GET("", jobVideoHandler.List)
		jobVideos.GET("/:id", jobVideoHandler.Get)
		jobVideos.DELETE("/:id", jobVideoHandler.Delete)
		jobVideos.POST("/:id/confirm-upload", jobVideoHandler.ConfirmUpload)
		jobVideos.POST("/:id/retry", jobVideoHandler.Retry)
		jobVideos.GET("/:id/lesson", jobVideoHandler.Lesson)
	}

	lessonHandler := handlers.NewLessonHandler(container.LessonService)
	lessons := router.Group("/lessons")
	{
		lessons.GET("", lessonHandler.List)
		lessons.GET("/:id", lessonHandler.Get)
		lessons.PUT("/:id/status", lessonHandler.UpdateStatus)
		lessons.POST("/:id/tags", lessonHandler.AttachTags)
	}

	catalogHandler := handlers.NewCatalogHandler(container.CatalogService)
	trades := router.Group("/trades")
	{
		trades.GET("", catalogHandler.ListTrades)
		trades.POST("", catalogHandler.CreateTrade)
		trades.GET("/:slug", catalogHandler.GetTrade)
	}
	router.GET("/tools", catalogHandler.ListTools)
	router.POST("/tools", catalogHandler.CreateTool)
	router.GET("/materials", catalogHandler.ListMaterials)
	router.POST("/materials", catalogHandler.CreateMaterial)
	router.GET("/tags", catalogHandler.ListTags)
	router.POST("/tags", catalogHandler.CreateTag)
}
