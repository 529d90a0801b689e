package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"unsc-explorer/cmd"
	"unsc-explorer/internal/api"
	"unsc-explorer/internal/chat"
	"unsc-explorer/internal/database"
	"unsc-explorer/internal/dataset"
	"unsc-explorer/internal/llm"
	"unsc-explorer/internal/sandbox"
	"unsc-explorer/internal/storage"
	"unsc-explorer/internal/webui"
)

type Config struct {
	Root string `env:"ROOT" envDefault:"./unsc-explorer"`
	Port int    `env:"PORT" envDefault:"8000"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:""`

	DatasetPath string `env:"DATASET_PATH" envDefault:""`
	DatasetURL  string `env:"DATASET_URL" envDefault:""`
	DatasetS3   string `env:"DATASET_S3" envDefault:""`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL" envDefault:""`
	S3Region          string `env:"AWS_REGION" envDefault:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`

	OpenAIApiKey string        `env:"OPENAI_API_KEY,notEmpty,required"`
	OpenAIModel  string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"50s"`
	CodeTemp     float64       `env:"CODE_TEMPERATURE" envDefault:"0.3"`
	ExplainTemp  float64       `env:"EXPLAIN_TEMPERATURE" envDefault:"0.2"`

	ExecTimeout time.Duration `env:"EXEC_TIMEOUT" envDefault:"10s"`
	MaxSessions int           `env:"MAX_LIVE_SESSIONS" envDefault:"64"`
}

func loadDataset(cfg Config) *dataset.Frame {
	path, err := storage.ResolveDataset(context.Background(), storage.DatasetSource{
		Path:  cfg.DatasetPath,
		URL:   cfg.DatasetURL,
		S3URI: cfg.DatasetS3,
		S3: storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		},
	}, filepath.Join(cfg.Root, "datasets"))
	if err != nil {
		log.Fatalf("Failed to resolve dataset: %v", err)
	}

	frame, err := dataset.Load(path)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	return frame
}

func createServer(cfg Config, db *gorm.DB, frame *dataset.Frame) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Each turn makes two model calls plus snippet execution; keep headroom over their timeouts.
	r.Use(middleware.Timeout(3 * time.Minute))

	generator := llm.NewOpenAILLM(cfg.OpenAIApiKey, cfg.OpenAIModel, cfg.LLMTimeout)
	executor := sandbox.NewExecutor(cfg.ExecTimeout)
	cache := chat.NewSessionCache(cfg.MaxSessions, db, generator, executor, frame, cfg.CodeTemp, cfg.ExplainTemp)

	datasetHandler := api.NewDatasetService(frame)
	chatHandler := api.NewChatService(db, cache)

	r.Route("/api/v1", func(r chi.Router) {
		datasetHandler.AddRoutes(r)
		chatHandler.AddRoutes(r)
	})

	r.Handle("/*", webui.Handler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
}

func main() {
	log.Println("Starting UNSC Voting Explorer...")

	cmd.LoadEnvFile()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, filepath.Join(cfg.Root, "db", "unsc-explorer.db"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	frame := loadDataset(cfg)

	server := createServer(cfg, db, frame)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on port %d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
