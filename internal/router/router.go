package router

import (
	"net/http"

	"knowyourplate/config"
	"knowyourplate/internal/handler"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/metrics"
	"knowyourplate/internal/middleware"
	"knowyourplate/internal/repository"
	"knowyourplate/internal/service"
	"knowyourplate/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	Log     *logger.Logger
	Metrics *metrics.Metrics
	Limiter middleware.Limiter
	Hub     *ws.Hub
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Hub == nil {
		deps.Hub = ws.NewHub()
	}
	log := deps.Log

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	}))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(deps.Limiter))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	timerRepo := repository.NewTimerRepository(db)
	drawRepo := repository.NewDrawRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(&cfg.JWT, userRepo, auditRepo, deps.Metrics, log)
	timerSvc := service.NewTimerService(timerRepo, auditRepo, deps.Hub, cfg.Survey.TimerDefaultDays, deps.Metrics, log)
	questionSvc := service.NewQuestionService(questionRepo, auditRepo, log)
	surveySvc := service.NewSurveyService(submissionRepo, questionRepo, timerSvc, auditRepo, deps.Metrics, log)
	drawSvc := service.NewDrawService(drawRepo, auditRepo, cfg.Survey.DrawPrize, deps.Metrics, log)
	reportSvc := service.NewReportService(reportRepo)
	referralSvc := service.NewReferralService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, &cfg.JWT, cfg.IsProduction(), log)
	surveyHandler := handler.NewSurveyHandler(questionSvc, surveySvc, log)
	timerHandler := handler.NewTimerHandler(timerSvc, deps.Hub, ws.NewUpgrader(cfg.CORS.AllowOrigins), log)
	adminHandler := handler.NewAdminHandler(questionSvc, reportSvc, drawSvc, log)
	referralHandler := handler.NewReferralHandler(referralSvc, log)

	authMw := middleware.AuthRequired(authSvc)
	adminMw := middleware.AdminRequired()

	r.GET("/health", health(db))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", authMw, authHandler.Me)
	}

	survey := r.Group("/survey")
	{
		survey.GET("/questions", surveyHandler.Questions)
		survey.GET("/status", authMw, surveyHandler.Status)
		survey.POST("/submit", authMw, surveyHandler.Submit)
	}

	r.GET("/timer", timerHandler.Get)
	r.POST("/timer", authMw, adminMw, timerHandler.Update)
	r.GET("/ws/timer", timerHandler.Stream)

	admin := r.Group("/admin")
	admin.Use(authMw, adminMw)
	{
		admin.GET("/questions", adminHandler.ListQuestions)
		admin.POST("/questions", adminHandler.CreateQuestion)
		admin.PUT("/questions", adminHandler.UpdateQuestion)
		admin.DELETE("/questions", adminHandler.DeleteQuestion)
		admin.GET("/responses", adminHandler.Responses)
		admin.GET("/referrals", adminHandler.Referrals)
		admin.POST("/lucky-draw", adminHandler.LuckyDraw)
		admin.GET("/draws", adminHandler.ListDraws)
	}

	user := r.Group("/user")
	user.Use(authMw)
	{
		user.GET("/referrals", referralHandler.GetMyReferrals)
		user.GET("/referral", referralHandler.GetMyReferralCode)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
