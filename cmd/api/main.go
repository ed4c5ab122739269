package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roomreserve/internal/config"
	"roomreserve/internal/database"
	"roomreserve/internal/middleware"
	"roomreserve/internal/modules/auth"
	"roomreserve/internal/modules/reservation"
	"roomreserve/internal/modules/room"
	"roomreserve/internal/modules/user"
	"roomreserve/internal/pkg/clock"
	jwtsvc "roomreserve/internal/pkg/jwt"
	"roomreserve/internal/repository"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := repository.EnsureConstraints(db); err != nil {
		log.Fatal().Err(err).Msg("constraint setup failed")
	}

	cache, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer database.CloseRedis(cache)

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	roomService := room.NewService(roomRepo, reservationRepo)
	roomHandler := room.NewHandler(roomService)

	reservationService := reservation.NewService(reservationRepo, roomRepo, clock.System(), cache)
	reservationHandler := reservation.NewHandler(reservationService)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		roomHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
			roomHandler.RegisterAdminRoutes(protected)
			userHandler.RegisterRoutes(protected)
		}
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
