// Package main provides the entrypoint for the SakayMap API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakaymap/sakaymap/internal/api"
	"github.com/sakaymap/sakaymap/internal/api/middleware"
	"github.com/sakaymap/sakaymap/internal/auth"
	"github.com/sakaymap/sakaymap/internal/database"
	"github.com/sakaymap/sakaymap/internal/directions"
	directionsgoogle "github.com/sakaymap/sakaymap/internal/directions/google"
	"github.com/sakaymap/sakaymap/internal/fare"
	"github.com/sakaymap/sakaymap/internal/mailer"
	"github.com/sakaymap/sakaymap/internal/places"
	placesgoogle "github.com/sakaymap/sakaymap/internal/places/google"
	"github.com/sakaymap/sakaymap/internal/provider/resilience"
	"github.com/sakaymap/sakaymap/internal/review"
	"github.com/sakaymap/sakaymap/internal/telemetry"
	"github.com/sakaymap/sakaymap/internal/trip"
	"github.com/sakaymap/sakaymap/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sakaymap-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SakayMap API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// OTP storage: Redis when configured, in-process otherwise
	var otpStore auth.OTPStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		defer redisClient.Close()
		otpStore = auth.NewRedisOTPStore(redisClient)
		log.Info().Str("addr", redisAddr).Msg("redis OTP store initialized")
	} else {
		otpStore = auth.NewInMemoryOTPStore()
		log.Warn().Msg("REDIS_ADDR not set - using in-memory OTP store")
	}

	// Verification email delivery: Pub/Sub job queue when configured,
	// direct SMTP otherwise
	var otpMailer auth.OTPMailEnqueuer
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topic := os.Getenv("OTP_EMAIL_TOPIC")
		if topic == "" {
			topic = "otp-email-jobs"
		}
		enqueuer, err := mailer.NewPubSubEnqueuer(ctx, mailer.PubSubEnqueuerConfig{
			ProjectID: projectID,
			TopicName: topic,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub enqueuer")
		}
		defer enqueuer.Close()
		otpMailer = enqueuer
		log.Info().Str("topic", topic).Msg("pubsub mail enqueuer initialized")
	} else if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     smtpHost,
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			Logger:   log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize smtp sender")
		}
		otpMailer = &mailer.DirectEnqueuer{Sender: sender}
		log.Info().Str("host", smtpHost).Msg("direct smtp mailer initialized")
	} else {
		log.Warn().Msg("no mail transport configured - registration emails will fail")
	}

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.sakaymap.ph",
		Audience:   "sakaymap-api",
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService: jwtService,
		UserRepo:   auth.NewPostgresUserRepository(pool),
		OTPStore:   otpStore,
		Mailer:     otpMailer,
		Logger:     log,
	})
	log.Info().Msg("auth service initialized")

	userService := user.NewService(user.ServiceConfig{
		Repo:   user.NewPostgresRepository(pool),
		Logger: log,
	})
	log.Info().Msg("user service initialized")

	reviewService := review.NewService(review.ServiceConfig{
		Repo:   review.NewPostgresRepository(pool),
		Logger: log,
	})
	log.Info().Msg("review service initialized")

	// Upstream Google Maps providers share a health registry
	registry := resilience.NewRegistry()

	mapsAPIKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsAPIKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - place and route lookups will fail")
	}

	placesClient, err := placesgoogle.NewClient(placesgoogle.ClientConfig{
		APIKey: mapsAPIKey,
		Logger: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}

	placesService := places.NewService(places.ServiceConfig{
		Resolver: placesClient,
		Logger:   log,
	})
	log.Info().Msg("places service initialized")

	directionsService := directions.NewService(directions.ServiceConfig{
		Provider: directionsgoogle.NewClient(directionsgoogle.ClientConfig{
			APIKey:   mapsAPIKey,
			Registry: registry,
			Logger:   log,
		}),
		Rates:  fare.DefaultRates(),
		Logger: log,
	})
	log.Info().Msg("directions service initialized")

	tripSessions := trip.NewSessionManager(directionsService, log)

	var allowedOrigins []string
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		AllowedOrigins:   allowedOrigins,
		Metrics:          metrics,
		ProviderRegistry: registry,
		ReadyFunc: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		AuthService:       authService,
		UserService:       userService,
		ReviewService:     reviewService,
		PlacesService:     placesService,
		DirectionsService: directionsService,
		TripSessions:      tripSessions,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
