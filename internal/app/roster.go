package app

import (
	"strings"

	"github.com/google/uuid"
	"team-quiz-service/internal/domain"
)

// minTeams is the smallest roster a quiz can run with; removals that would
// shrink the roster below it are refused.
const minTeams = 2

// Roster owns team identity, naming, and removal. Mutations follow the
// silent-rejection convention: invalid input returns false and changes
// nothing, it never errors.
type Roster struct {
	teams []*domain.Team
	newID func() string
}

// NewRoster seeds a roster with one zero-score team per default name.
func NewRoster(defaultNames []string) *Roster {
	r := &Roster{newID: uuid.NewString}
	for _, name := range defaultNames {
		r.teams = append(r.teams, &domain.Team{ID: r.newID(), Name: name})
	}
	return r
}

// newRosterWithIDs is test-only for deterministic team IDs.
func newRosterWithIDs(defaultNames []string, newID func() string) *Roster {
	r := &Roster{newID: newID}
	for _, name := range defaultNames {
		r.teams = append(r.teams, &domain.Team{ID: r.newID(), Name: name})
	}
	return r
}

// AddTeam appends a new zero-score team. Empty or whitespace-only names are
// ignored. Duplicate names are allowed.
func (r *Roster) AddTeam(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	r.teams = append(r.teams, &domain.Team{ID: r.newID(), Name: trimmed})
	return true
}

// RemoveTeam removes the matching team, refusing to shrink the roster to
// fewer than two teams.
func (r *Roster) RemoveTeam(id string) bool {
	if len(r.teams) <= minTeams {
		return false
	}
	for i, team := range r.teams {
		if team.ID == id {
			r.teams = append(r.teams[:i], r.teams[i+1:]...)
			return true
		}
	}
	return false
}

// RenameTeam replaces the team's name in place. The name is live-typed in
// the UI, so empty strings are allowed here.
func (r *Roster) RenameTeam(id, name string) bool {
	for _, team := range r.teams {
		if team.ID == id {
			team.Name = name
			return true
		}
	}
	return false
}

// Teams returns the live team pointers in roster order. The session shares
// these pointers so score updates and mid-game renames stay visible.
func (r *Roster) Teams() []*domain.Team {
	return r.teams
}

// TeamViews returns value copies for snapshots.
func (r *Roster) TeamViews() []domain.Team {
	views := make([]domain.Team, 0, len(r.teams))
	for _, team := range r.teams {
		views = append(views, *team)
	}
	return views
}

// Len reports the roster size.
func (r *Roster) Len() int {
	return len(r.teams)
}

// CanStart reports whether a quiz may begin: at least two teams and a
// non-empty question bank.
func (r *Roster) CanStart(questionCount int) bool {
	return len(r.teams) >= minTeams && questionCount > 0
}
