package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"storegate/internal/auth/handler"
	"storegate/internal/auth/service"
	"storegate/internal/config"
	"storegate/internal/db"
	"storegate/internal/event"
	"storegate/internal/event/producer"
	rolerepo "storegate/internal/role/repository"
	"storegate/internal/security"
	sessionrepo "storegate/internal/session/repository"
	"storegate/internal/telemetry/otel"
	userrepo "storegate/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "storegate-auth", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("JWT_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("JWT_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey,
		cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())

	var emitter event.Emitter = event.Noop{}
	if kp := producer.NewKafkaProducer(cfg.EventKafkaBrokersList(), cfg.EventKafkaTopic); kp != nil {
		emitter = kp
		defer kp.Close()
	}

	svc := service.NewAuthService(
		userrepo.NewPostgresRepository(database),
		rolerepo.NewPostgresRepository(database),
		sessionrepo.NewPostgresRepository(database),
		security.NewHasher(cfg.BcryptCost),
		tokens,
		emitter,
		cfg.RefreshTTL(),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	handler.NewAuthHandler(svc, otel.NewAuditSink(providers.LoggerProvider)).Mount(r)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Store-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           corsMiddleware.Handler(r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), event.ShutdownDrainDuration+10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
