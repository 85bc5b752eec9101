package app

import (
	"strings"

	"team-quiz-service/internal/domain"
)

// Bank owns the ordered question list edited through the admin panel.
// Like the roster, invalid mutations are silent no-ops returning false.
type Bank struct {
	questions []domain.Question
}

// NewBank seeds the bank from a question pack, dropping any entries that do
// not satisfy the four-non-empty-options invariant.
func NewBank(questions []domain.Question) *Bank {
	b := &Bank{}
	for _, q := range questions {
		if validQuestion(q) {
			b.questions = append(b.questions, copyQuestion(q))
		}
	}
	return b
}

// AddQuestion validates the draft and appends it with a fresh id. The id is
// max(existing, 0)+1, so deleting the highest-id question lets its id be
// reissued. A zero CorrectAnswer is the default correct index.
func (b *Bank) AddQuestion(draft domain.Question) bool {
	if !validQuestion(draft) {
		return false
	}
	draft.ID = b.nextID()
	b.questions = append(b.questions, copyQuestion(draft))
	return true
}

// UpdateQuestion replaces the question with the matching id in place,
// preserving the id and its position.
func (b *Bank) UpdateQuestion(q domain.Question) bool {
	if !validQuestion(q) {
		return false
	}
	for i := range b.questions {
		if b.questions[i].ID == q.ID {
			b.questions[i] = copyQuestion(q)
			return true
		}
	}
	return false
}

// DeleteQuestion removes by id. The bank may become empty, which then blocks
// the session from starting.
func (b *Bank) DeleteQuestion(id int) bool {
	for i := range b.questions {
		if b.questions[i].ID == id {
			b.questions = append(b.questions[:i], b.questions[i+1:]...)
			return true
		}
	}
	return false
}

// Questions returns a deep copy of the current list.
func (b *Bank) Questions() []domain.Question {
	return b.Snapshot()
}

// Snapshot deep-copies the ordered question list. Sessions freeze on a
// snapshot at start so later bank edits never leak into a running quiz.
func (b *Bank) Snapshot() []domain.Question {
	snapshot := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		snapshot = append(snapshot, copyQuestion(q))
	}
	return snapshot
}

// Len reports the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

func (b *Bank) nextID() int {
	max := 0
	for _, q := range b.questions {
		if q.ID > max {
			max = q.ID
		}
	}
	return max + 1
}

func validQuestion(q domain.Question) bool {
	if strings.TrimSpace(q.Prompt) == "" {
		return false
	}
	if len(q.Options) != domain.OptionCount {
		return false
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
	}
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < domain.OptionCount
}

func copyQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
