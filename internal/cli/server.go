package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"team-quiz-service/internal/app"
	"team-quiz-service/internal/config"
	"team-quiz-service/internal/domain"
	"team-quiz-service/internal/infra/memory"
	pgloader "team-quiz-service/internal/infra/postgres"
	redisstore "team-quiz-service/internal/infra/redis"
	transport "team-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.PackLoader = memory.NewStaticPackLoader(samplePacks())
	if pool != nil {
		loader = pgloader.NewPackLoader(pool)
	}

	packTTL := config.TTLDuration(cfg.Pack.TTL, 10*time.Minute)
	var packRepo app.PackRepository
	if redisClient != nil {
		packRepo = redisstore.NewPackRepository(redisClient, loader, packTTL)
	} else {
		packRepo = memory.NewPackRepository(loader, packTTL)
	}

	var store app.GameRepository
	if redisClient != nil {
		store = redisstore.NewGameStore(redisClient, redisTTL)
	} else {
		store = memory.NewGameStore()
	}

	defaults := app.Defaults{
		TeamNames: cfg.Quiz.TeamNames,
		Settings:  cfg.Quiz.Settings,
	}
	service := app.NewGameService(store, packRepo, defaults)

	defaultPack := cfg.Quiz.DefaultPack
	if defaultPack == "" {
		defaultPack = "classic-5"
	}
	wsHandler := transport.NewWSHandler(service, defaultPack)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting team quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// samplePacks provides a built-in question pack; configure Postgres to serve
// curated packs instead.
func samplePacks() map[string]domain.QuestionPack {
	return map[string]domain.QuestionPack{
		"classic-5": {
			ID: "classic-5",
			Questions: []domain.Question{
				{
					ID:            1,
					Prompt:        "What is the capital of Turkey?",
					Options:       []string{"Istanbul", "Ankara", "Izmir", "Bursa"},
					CorrectAnswer: 1,
				},
				{
					ID:            2,
					Prompt:        "Which is the largest ocean on Earth?",
					Options:       []string{"Atlantic", "Indian", "Pacific", "Arctic"},
					CorrectAnswer: 2,
				},
				{
					ID:            3,
					Prompt:        "1 + 1 = ?",
					Options:       []string{"1", "2", "3", "4"},
					CorrectAnswer: 1,
				},
				{
					ID:            4,
					Prompt:        "Which planet is closest to the Sun?",
					Options:       []string{"Venus", "Mercury", "Mars", "Earth"},
					CorrectAnswer: 1,
				},
				{
					ID:            5,
					Prompt:        "In which year was JavaScript created?",
					Options:       []string{"1993", "1995", "1997", "1999"},
					CorrectAnswer: 1,
				},
			},
		},
	}
}
