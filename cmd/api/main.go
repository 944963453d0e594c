package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Idosegev23/GameChanger/internal/application"
	"github.com/Idosegev23/GameChanger/internal/application/access"
	appanalyses "github.com/Idosegev23/GameChanger/internal/application/analyses"
	"github.com/Idosegev23/GameChanger/internal/config"
	domanalyses "github.com/Idosegev23/GameChanger/internal/domain/analyses"
	"github.com/Idosegev23/GameChanger/internal/domain/members"
	"github.com/Idosegev23/GameChanger/internal/domain/taskerrors"
	openaiClient "github.com/Idosegev23/GameChanger/internal/infra/ai/openai"
	mysqldb "github.com/Idosegev23/GameChanger/internal/infra/db/mysql"
	pgdb "github.com/Idosegev23/GameChanger/internal/infra/db/postgres"
	"github.com/Idosegev23/GameChanger/internal/infra/httpserver"
	minioStore "github.com/Idosegev23/GameChanger/internal/infra/storage"
	"github.com/Idosegev23/GameChanger/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (driver per config)
	var (
		db          *sql.DB
		repo        domanalyses.Repository
		memberStore members.Store
		deadLetters taskerrors.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = pgdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = pgdb.NewAnalysisRepository(db)
		memberStore = pgdb.NewMembershipRepository(db)
		deadLetters = pgdb.NewTaskErrorRepository(db)
	default:
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqldb.NewAnalysisRepository(db)
		memberStore = mysqldb.NewMembershipRepository(db)
		deadLetters = mysqldb.NewTaskErrorRepository(db)
	}
	defer db.Close()

	// init recordings store
	recordings, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init AI client
	aiClient := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.TranscribeModel)

	// init service + dispatcher
	svc := &appanalyses.Service{
		Repo:        repo,
		Recordings:  recordings,
		Transcriber: aiClient,
		Scorer:      aiClient,
		DeadLetters: deadLetters,
		Clock:       application.SystemClock{},
	}
	dispatcher := appanalyses.NewDispatcher(svc, cfg.Workers.Count, cfg.Workers.QueueSize, middleware.AnalysisMetrics{})
	defer dispatcher.Close()

	checker := access.NewChecker(memberStore)

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.JWTAuth([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer))
	mux.Use(middleware.RateLimitMiddleware(60, 2))

	mux.Method(http.MethodGet, "/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc, checker, dispatcher))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
