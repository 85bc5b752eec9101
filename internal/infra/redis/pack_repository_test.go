package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"team-quiz-service/internal/domain"
	"team-quiz-service/internal/infra/memory"
)

func TestPackRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		PackLoader: memory.NewStaticPackLoader(map[string]domain.QuestionPack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewPackRepository(client, loader, time.Minute)

	pack, err := repo.GetPack(context.Background(), "pack-1")
	if err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(pack.Questions) != 1 || pack.Questions[0].CorrectAnswer != 1 {
		t.Fatalf("unexpected pack content: %+v", pack)
	}
	if !mr.Exists("pack:pack-1:data") {
		t.Fatalf("expected pack cached in redis")
	}

	// Second call should hit the cache, loader not incremented.
	cached, err := repo.GetPack(context.Background(), "pack-1")
	if err != nil {
		t.Fatalf("get pack 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[0].Prompt != pack.Questions[0].Prompt {
		t.Fatalf("expected full content round-tripped, got %+v", cached.Questions[0])
	}
}

type countingLoader struct {
	memory.PackLoader
	calls int
}

func (l *countingLoader) LoadPack(ctx context.Context, packID string) (domain.QuestionPack, error) {
	l.calls++
	return l.PackLoader.LoadPack(ctx, packID)
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
