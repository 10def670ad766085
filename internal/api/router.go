package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/snapcap/internal/api/handler"
	"github.com/timmy/snapcap/internal/api/middleware"
	"github.com/timmy/snapcap/internal/repository"
	"github.com/timmy/snapcap/internal/service"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(
	describer service.Describer,
	captions handler.CaptionGenerator,
	store *repository.HistoryStore,
	cors middleware.CORSConfig,
	mode string,
) *gin.Engine {
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cors))

	describeHandler := handler.NewDescribeHandler(describer, store)
	captionHandler := handler.NewCaptionHandler(captions, store)
	historyHandler := handler.NewHistoryHandler(store)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/describe", describeHandler.Describe)
		api.POST("/caption", captionHandler.GenerateCaption)

		api.GET("/history", historyHandler.List)
		api.GET("/history/:id", historyHandler.Get)
		api.DELETE("/history/:id", historyHandler.Delete)
		api.DELETE("/history", historyHandler.Clear)
	}

	return r
}
