package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"team-quiz-service/internal/app"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Notes:
//   - It still keeps a local in-memory map of games to reuse the existing
//     in-process broadcast logic.
//   - Redis is used to mark game liveness (and could be extended to share
//     snapshots or route cross-instance pub/sub).
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
	}
}

func (s *GameStore) GetOrCreate(gameID string, create func() *app.Game) *app.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.games[gameID]; ok {
		return game
	}
	game := create()
	s.games[gameID] = game
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(gameID), "1", s.ttl).Err()
	return game
}

func (s *GameStore) Get(gameID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	return game, ok
}

func (s *GameStore) DeleteIfIdle(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return
	}
	if game.Idle() {
		delete(s.games, gameID)
		_ = s.client.Del(context.Background(), s.key(gameID)).Err()
	}
}

func (s *GameStore) key(gameID string) string {
	return "game:session:" + gameID
}
