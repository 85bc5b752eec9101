package app

import (
	"sync"
	"time"

	"team-quiz-service/internal/domain"
)

// Game is the in-memory aggregate for one playthrough: phase, roster,
// question bank, settings, and the live session once started. The phase is
// the single authoritative value gating which mutations apply, replacing
// independent started/finished booleans. Every applied mutation broadcasts
// a full snapshot to subscribers.
type Game struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu          sync.RWMutex
	phase       domain.Phase
	roster      *Roster
	bank        *Bank
	settings    domain.Settings
	session     *Session
	report      *domain.Report
	subscribers map[chan domain.GameSnapshot]struct{}
}

// NewGame seeds a game with the default roster, the pack's questions, and
// default settings, starting in the setup phase.
func NewGame(id string, pack domain.QuestionPack, teamNames []string, settings domain.Settings) *Game {
	return newGameWithClock(id, pack, teamNames, settings, time.Now)
}

// newGameWithClock allows deterministic timestamps in tests.
func newGameWithClock(id string, pack domain.QuestionPack, teamNames []string, settings domain.Settings, now func() time.Time) *Game {
	return &Game{
		id:          id,
		createdAt:   now(),
		now:         now,
		phase:       domain.PhaseSetup,
		roster:      NewRoster(teamNames),
		bank:        NewBank(pack.Questions),
		settings:    settings,
		subscribers: make(map[chan domain.GameSnapshot]struct{}),
	}
}

// AddTeam adds a team during setup. Inert in any other phase.
func (g *Game) AddTeam(name string) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup || !g.roster.AddTeam(name) {
		return g.snapshotLocked(), false
	}
	return g.broadcastLocked(), true
}

// RemoveTeam removes a team during setup, never below two teams.
func (g *Game) RemoveTeam(id string) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup || !g.roster.RemoveTeam(id) {
		return g.snapshotLocked(), false
	}
	return g.broadcastLocked(), true
}

// RenameTeam renames a team. Names are live-typed, so renames stay allowed
// while the quiz is playing; only a finished game is inert.
func (g *Game) RenameTeam(id, name string) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == domain.PhaseFinished || !g.roster.RenameTeam(id, name) {
		return g.snapshotLocked(), false
	}
	return g.broadcastLocked(), true
}

// AddQuestion appends a validated question during setup.
func (g *Game) AddQuestion(draft domain.Question) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup || !g.bank.AddQuestion(draft) {
		return g.snapshotLocked(), false
	}
	return g.broadcastLocked(), true
}

// UpdateQuestion replaces a question in place during setup.
func (g *Game) UpdateQuestion(q domain.Question) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup || !g.bank.UpdateQuestion(q) {
		return g.snapshotLocked(), false
	}
	return g.broadcastLocked(), true
}

// DeleteQuestion removes a question during setup.
func (g *Game) DeleteQuestion(id int) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup || !g.bank.DeleteQuestion(id) {
		return g.snapshotLocked(), false
	}
	return g.broadcastLocked(), true
}

// UpdateSettings stores the admin settings during setup. The values are
// echoed to clients but never consulted by scoring.
func (g *Game) UpdateSettings(settings domain.Settings) (domain.GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup {
		return g.snapshotLocked(), false
	}
	g.settings = settings
	return g.broadcastLocked(), true
}

// Start freezes the question bank into a session snapshot and begins the
// quiz at the first question.
func (g *Game) Start() (domain.GameSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != domain.PhaseSetup {
		return g.snapshotLocked(), domain.ErrQuizAlreadyStarted
	}
	if !g.roster.CanStart(g.bank.Len()) {
		return g.snapshotLocked(), domain.ErrCannotStart
	}
	g.session = NewSession(g.bank.Snapshot(), g.roster.Teams())
	g.phase = domain.PhasePlaying
	return g.broadcastLocked(), nil
}

// SubmitAnswer records a team's choice for the current question.
func (g *Game) SubmitAnswer(teamID string, option int) (domain.GameSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return g.snapshotLocked(), domain.ErrQuizNotStarted
	}
	if err := g.session.SubmitAnswer(teamID, option); err != nil {
		return g.snapshotLocked(), err
	}
	return g.broadcastLocked(), nil
}

// Reveal locks in answers and scores the current question. Refused with
// ErrNotAllAnswered until every team has a recorded answer.
func (g *Game) Reveal() (domain.GameSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return g.snapshotLocked(), domain.ErrQuizNotStarted
	}
	if err := g.session.Reveal(); err != nil {
		return g.snapshotLocked(), err
	}
	return g.broadcastLocked(), nil
}

// Advance moves to the next question, or finishes the game and computes the
// final report after the last one.
func (g *Game) Advance() (domain.GameSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return g.snapshotLocked(), domain.ErrQuizNotStarted
	}
	if err := g.session.Advance(); err != nil {
		return g.snapshotLocked(), err
	}
	if g.session.Finished() {
		g.phase = domain.PhaseFinished
		report := ComputeReport(g.roster.TeamViews(), g.session.Stats(), g.session.Questions())
		g.report = &report
	}
	return g.broadcastLocked(), nil
}

// Snapshot returns the current client-facing state.
func (g *Game) Snapshot() domain.GameSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

// Subscribe registers a snapshot channel. The caller must invoke the
// returned cancel function to avoid leaks.
func (g *Game) Subscribe() (<-chan domain.GameSnapshot, func()) {
	ch := make(chan domain.GameSnapshot, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	initial := g.snapshotLocked()
	g.mu.Unlock()

	ch <- initial

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// Idle reports whether no subscribers remain, so stores can drop the game.
func (g *Game) Idle() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.subscribers) == 0
}

func (g *Game) broadcastLocked() domain.GameSnapshot {
	snapshot := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale update so a slow client never blocks the rest.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return snapshot
}

func (g *Game) snapshotLocked() domain.GameSnapshot {
	snapshot := domain.GameSnapshot{
		GameID:    g.id,
		Phase:     g.phase,
		Teams:     g.roster.TeamViews(),
		Questions: g.bank.Questions(),
		Settings:  g.settings,
		CanStart:  g.phase == domain.PhaseSetup && g.roster.CanStart(g.bank.Len()),
		Report:    g.report,
		UpdatedAt: g.now(),
	}
	if g.session != nil {
		view := g.session.View()
		snapshot.Session = &view
	}
	return snapshot
}
