package routes

import (
	"os"

	"github.com/gin-gonic/gin"

	"userapp/internal/adapter/http/handler"
	"userapp/internal/adapter/http/middleware"
	"userapp/pkg/logging"
	"userapp/pkg/telemetry"
)

type HandlersConfig struct {
	UserHandler   *handler.UserHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *logging.Logger, allowedOrigins []string) *gin.Engine {
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddleware(router, "userapp", metrics, logger)

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(allowedOrigins))

	registerRoutes(router, handlers)

	return router
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(nil))

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Health)
		router.GET("/", handlers.HealthHandler.Info)
	}

	if handlers.UserHandler != nil {
		users := router.Group("/api/users")
		{
			users.GET("", handlers.UserHandler.GetAllUsers)
			users.POST("", handlers.UserHandler.CreateUser)
			users.GET("/:id", handlers.UserHandler.GetUserByID)
			users.PUT("/:id", handlers.UserHandler.UpdateUser)
			users.DELETE("/:id", handlers.UserHandler.DeleteUser)
		}
	}
}
