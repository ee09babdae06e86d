package routes

import (
	"log/slog"
	"net/http"

	"tutorcrm-backend/config"
	"tutorcrm-backend/controllers"
	"tutorcrm-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Log           *slog.Logger
	JWTSecret     string
	CORSOrigins   []string
	Lessons       *controllers.LessonController
	Jobs          *controllers.JobController
	Notifications *controllers.NotificationController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(d.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(d.JWTSecret))
	{
		lessons := api.Group("/lessons")
		{
			lessons.GET("/starting-soon", d.Lessons.GetStartingSoon)
		}

		jobs := api.Group("/jobs")
		{
			jobs.POST("/notify-inactive", d.Jobs.RunNotifyInactive)
		}

		api.GET("/notifications", d.Notifications.GetNotifications)
	}

	return r
}
