package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/config"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/handler"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/middleware"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/repository"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/service"
	"github.com/Emna-bentorkia/Pfe-Projet-final/pkg/database"
	"github.com/Emna-bentorkia/Pfe-Projet-final/pkg/mailer"
	"github.com/Emna-bentorkia/Pfe-Projet-final/pkg/pdfgen"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	userRepo := repository.NewUserRepository(db)
	cvRepo := repository.NewCVRepository(db)

	otpService := service.NewOTPService(userRepo)
	authService := service.NewAuthService(cfg, userRepo, otpService, mailer.New(cfg))
	cvService := service.NewCVService(cvRepo, userRepo, pdfgen.New())

	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userRepo)
	cvHandler := handler.NewCVHandler(cvService)

	router := setupRouter(cfg, authService, authHandler, userHandler, cvHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupRouter(
	cfg *config.Config,
	authService domain.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	cvHandler *handler.CVHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigin))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API Working!!")
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/send-verify-otp", authHandler.SendVerifyOTP)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.GET("/is-auth", authHandler.IsAuthenticated)
			auth.POST("/send-reset-otp", authHandler.SendResetOTP)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		user := api.Group("/user")
		user.Use(middleware.AuthMiddleware(authService))
		{
			user.GET("/data", userHandler.GetUserData)
		}

		cv := api.Group("/cv")
		cv.Use(middleware.AuthMiddleware(authService))
		{
			cv.POST("", cvHandler.CreateOrUpdate)
			cv.GET("/:userId", cvHandler.Get)
			cv.GET("/:userId/export", cvHandler.Export)
			cv.POST("/add-item", cvHandler.AddItem)
			cv.PUT("/update-item", cvHandler.UpdateItem)
			cv.DELETE("/remove-item", cvHandler.RemoveItem)
			cv.PUT("/info", cvHandler.UpdateInfo)
			cv.DELETE("", cvHandler.Delete)

			cv.POST("/skills", cvHandler.AddToSection(domain.SectionSkills))
			cv.POST("/professional-experiences", cvHandler.AddToSection(domain.SectionExperiences))
			cv.POST("/educations", cvHandler.AddToSection(domain.SectionEducations))
			cv.POST("/languages", cvHandler.AddToSection(domain.SectionLanguages))
			cv.POST("/projects", cvHandler.AddToSection(domain.SectionProjects))
			cv.POST("/certifications", cvHandler.AddToSection(domain.SectionCertifications))
		}
	}

	return router
}
