package app

import (
	"examind_backend/docs"
	"examind_backend/internal/config"
	"examind_backend/internal/middleware"
	"examind_backend/internal/model"
	"examind_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/me", c.auth.Me)

		authGroup.GET("/quizzes", c.quiz.List)
		authGroup.GET("/quizzes/:id", c.quiz.Get)

		authGroup.POST("/submissions", c.grading.Submit)
		authGroup.GET("/submissions/:id", c.grading.Get)

		staff := authGroup.Group("")
		staff.Use(middleware.RoleMiddleware(model.Teacher))
		{
			staff.POST("/quizzes", c.quiz.Create)
			staff.PUT("/quizzes/:id", c.quiz.Update)
			staff.DELETE("/quizzes/:id", c.quiz.Delete)
			staff.GET("/quizzes/:id/stats", c.grading.Stats)

			staff.POST("/questions", c.question.Create)
			staff.GET("/questions/:id", c.question.Get)
			staff.PUT("/questions/:id", c.question.Update)
			staff.DELETE("/questions/:id", c.question.Delete)

			staff.POST("/submissions/:id/regrade", c.grading.Regrade)
			staff.GET("/grading/manual", c.grading.ManualQueue)
			staff.POST("/grading/answers/:answerId", c.grading.GradeAnswer)
		}
	}
}
