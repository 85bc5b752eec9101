package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/jackc/pgx/v4/pgxpool"
	"team-quiz-service/internal/app"
	"team-quiz-service/internal/domain"
	pgloader "team-quiz-service/internal/infra/postgres"
	pgmigrations "team-quiz-service/internal/infra/postgres/migrations"
	infraredis "team-quiz-service/internal/infra/redis"
)

func TestGamePlaythroughEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedPack(t, ctx, pgURL, samplePack())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewPackLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	packRepo := infraredis.NewPackRepository(redisClient, loader, 5*time.Minute)
	gameStore := infraredis.NewGameStore(redisClient, 5*time.Minute)
	service := app.NewGameService(gameStore, packRepo, app.Defaults{})

	snapshot, err := service.Open(ctx, "game-1", "pack-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(snapshot.Questions) != 1 {
		t.Fatalf("expected pack loaded from postgres, got %d questions", len(snapshot.Questions))
	}

	if _, err := service.Start("game-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Reveal("game-1"); !errors.Is(err, domain.ErrNotAllAnswered) {
		t.Fatalf("expected reveal gate, got %v", err)
	}

	// First team answers correctly, the rest are wrong.
	for i, team := range snapshot.Teams {
		option := 0
		if i == 0 {
			option = 1
		}
		if _, err := service.SubmitAnswer("game-1", team.ID, option); err != nil {
			t.Fatalf("answer %s: %v", team.Name, err)
		}
	}
	if _, err := service.Reveal("game-1"); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	final, err := service.Advance("game-1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if final.Phase != domain.PhaseFinished || final.Report == nil {
		t.Fatalf("expected finished game with report, got %+v", final.Phase)
	}
	if final.Report.Winner.TeamID != snapshot.Teams[0].ID || final.Report.Winner.Score != 10 {
		t.Fatalf("expected first team to win with 10 points, got %+v", final.Report.Winner)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedPack(t *testing.T, ctx context.Context, dsn string, pack domain.QuestionPack) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(pack)
	if err != nil {
		t.Fatalf("marshal pack: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_packs (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, pack.ID, string(data)); err != nil {
		t.Fatalf("insert pack: %v", err)
	}
}

func samplePack() domain.QuestionPack {
	return domain.QuestionPack{
		ID: "pack-1",
		Questions: []domain.Question{
			{
				ID:            1,
				Prompt:        "What is 2 + 2?",
				Options:       []string{"3", "4", "5", "6"},
				CorrectAnswer: 1,
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
