package app

import (
	"skillbridge_backend/docs"
	"skillbridge_backend/internal/config"
	"skillbridge_backend/internal/middleware"
	"skillbridge_backend/internal/model"

	"skillbridge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerTrainerRoutes(authGroup, c)
		a.registerRecruiterRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Published catalog is browsable without an account.
		public.GET("/programs", c.content.ListPrograms)
		public.GET("/programs/:id", c.content.GetProgram)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)

	// Enrollment and progress
	rg.POST("/programs/:id/enroll", c.enrollment.Enroll)
	rg.DELETE("/programs/:id/enroll", c.enrollment.Drop)
	rg.GET("/enrollments", c.enrollment.MyEnrollments)
	rg.POST("/programs/:id/modules/:moduleId/videos/:videoId/watched", c.enrollment.RecordVideoWatched)
	rg.POST("/programs/:id/modules/:moduleId/completed", c.enrollment.RecordModuleCompleted)
	rg.GET("/programs/:id/quiz-scores", c.enrollment.QuizScores)

	// Quiz sessions
	rg.POST("/programs/:id/quiz/session", c.quiz.OpenSession)
	rg.GET("/programs/:id/quiz/session", c.quiz.GetSession)
	rg.DELETE("/programs/:id/quiz/session", c.quiz.AbandonSession)
	rg.POST("/programs/:id/quiz/session/start", c.quiz.StartSession)
	rg.POST("/programs/:id/quiz/session/answer", c.quiz.SelectAnswer)
	rg.POST("/programs/:id/quiz/session/submit", c.quiz.SubmitSession)
	rg.POST("/programs/:id/quiz/session/retake", c.quiz.RetakeSession)
}

func (a *App) registerTrainerRoutes(rg *gin.RouterGroup, c *controllers) {
	trainer := rg.Group("/trainer")
	trainer.Use(middleware.RoleMiddleware(model.Trainer))
	{
		trainer.POST("/programs", c.content.CreateProgram)
		trainer.PUT("/programs/:id", c.content.UpdateProgram)
		trainer.DELETE("/programs/:id", c.content.DeleteProgram)
		trainer.POST("/programs/:id/modules", c.content.AddModule)
		trainer.DELETE("/programs/:id/modules/:moduleId", c.content.DeleteModule)
		trainer.POST("/programs/:id/modules/:moduleId/videos", c.content.AddVideo)
		trainer.DELETE("/programs/:id/modules/:moduleId/videos/:videoId", c.content.DeleteVideo)

		// One quiz surface for module and course scopes, selected by quizType.
		trainer.POST("/programs/:id/quizzes", c.quiz.AddQuestions)
		trainer.GET("/programs/:id/quizzes", c.quiz.GetQuestions)
		trainer.DELETE("/programs/:id/quizzes", c.quiz.DeleteQuestions)
	}
}

func (a *App) registerRecruiterRoutes(rg *gin.RouterGroup, c *controllers) {
	recruiter := rg.Group("/recruiter")
	recruiter.Use(middleware.RoleMiddleware(model.Recruiter))
	{
		recruiter.GET("/programs/:id/candidates", c.enrollment.CompletedCandidates)
	}
}
