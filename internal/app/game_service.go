package app

import (
	"context"

	"team-quiz-service/internal/domain"
)

// GameRepository abstracts how games are stored (in-memory, Redis, etc).
type GameRepository interface {
	GetOrCreate(gameID string, create func() *Game) *Game
	Get(gameID string) (*Game, bool)
	DeleteIfIdle(gameID string)
}

// PackRepository loads question pack content (from cache/backing store).
type PackRepository interface {
	GetPack(ctx context.Context, packID string) (domain.QuestionPack, error)
}

// Defaults configures how new games are seeded.
type Defaults struct {
	TeamNames []string
	Settings  domain.Settings
}

// DefaultTeamNames returns the four teams every new game starts with.
func DefaultTeamNames() []string {
	return []string{"Team A", "Team B", "Team C", "Team D"}
}

// GameService contains the game use cases: opening games seeded from a
// question pack and driving every roster, bank, and session operation.
type GameService struct {
	games    GameRepository
	packs    PackRepository
	defaults Defaults
}

func NewGameService(games GameRepository, packs PackRepository, defaults Defaults) *GameService {
	if len(defaults.TeamNames) == 0 {
		defaults.TeamNames = DefaultTeamNames()
	}
	if defaults.Settings == (domain.Settings{}) {
		defaults.Settings = domain.DefaultSettings()
	}
	return &GameService{games: games, packs: packs, defaults: defaults}
}

// Open creates the game if needed, seeding its bank from the named question
// pack, and returns the current snapshot. Unknown packs are an error.
func (s *GameService) Open(ctx context.Context, gameID, packID string) (domain.GameSnapshot, error) {
	pack, err := s.packs.GetPack(ctx, packID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	game := s.games.GetOrCreate(gameID, func() *Game {
		return NewGame(gameID, pack, s.defaults.TeamNames, s.defaults.Settings)
	})
	return game.Snapshot(), nil
}

// AddTeam adds a team to an open game's roster.
func (s *GameService) AddTeam(gameID, name string) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.AddTeam(name)
	return snapshot, applied, nil
}

// RemoveTeam removes a team from an open game's roster.
func (s *GameService) RemoveTeam(gameID, teamID string) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.RemoveTeam(teamID)
	return snapshot, applied, nil
}

// RenameTeam renames a team in an open game's roster.
func (s *GameService) RenameTeam(gameID, teamID, name string) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.RenameTeam(teamID, name)
	return snapshot, applied, nil
}

// AddQuestion appends a question to an open game's bank.
func (s *GameService) AddQuestion(gameID string, draft domain.Question) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.AddQuestion(draft)
	return snapshot, applied, nil
}

// UpdateQuestion replaces a question in an open game's bank.
func (s *GameService) UpdateQuestion(gameID string, q domain.Question) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.UpdateQuestion(q)
	return snapshot, applied, nil
}

// DeleteQuestion removes a question from an open game's bank.
func (s *GameService) DeleteQuestion(gameID string, questionID int) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.DeleteQuestion(questionID)
	return snapshot, applied, nil
}

// UpdateSettings stores the admin settings on an open game.
func (s *GameService) UpdateSettings(gameID string, settings domain.Settings) (domain.GameSnapshot, bool, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, false, domain.ErrGameNotFound
	}
	snapshot, applied := game.UpdateSettings(settings)
	return snapshot, applied, nil
}

// Start begins the quiz for an open game.
func (s *GameService) Start(gameID string) (domain.GameSnapshot, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrGameNotFound
	}
	return game.Start()
}

// SubmitAnswer records a team's answer for the current question.
func (s *GameService) SubmitAnswer(gameID, teamID string, option int) (domain.GameSnapshot, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrGameNotFound
	}
	return game.SubmitAnswer(teamID, option)
}

// Reveal scores the current question once every team has answered.
func (s *GameService) Reveal(gameID string) (domain.GameSnapshot, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrGameNotFound
	}
	return game.Reveal()
}

// Advance moves to the next question or finishes the quiz.
func (s *GameService) Advance(gameID string) (domain.GameSnapshot, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.GameSnapshot{}, domain.ErrGameNotFound
	}
	return game.Advance()
}

// Subscribe returns a channel that receives snapshot updates for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.GameSnapshot, func(), error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := game.Subscribe()
	return ch, cancel, nil
}

// Close drops the game once no subscribers remain.
func (s *GameService) Close(gameID string) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return
	}
	if game.Idle() {
		s.games.DeleteIfIdle(gameID)
	}
}
