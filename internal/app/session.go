package app

import (
	"team-quiz-service/internal/domain"
)

// pointsPerCorrect is the fixed award for a correct answer. The admin
// settings expose a points field but it is display-only; scoring never
// consults it.
const pointsPerCorrect = 10

// Session drives one playthrough over a frozen question snapshot:
// AwaitingAnswers -> ResultsShown per question, Finished after the last
// question's results are acknowledged. It shares team pointers with the
// roster and is the only writer of Team.Score. The owning Game serializes
// all access, so the session itself holds no lock.
type Session struct {
	questions []domain.Question
	teams     []*domain.Team
	index     int
	state     domain.SessionState
	answers   map[string]int
	stats     domain.Stats
}

// NewSession freezes the given question snapshot and team set and starts at
// the first question, awaiting answers.
func NewSession(snapshot []domain.Question, teams []*domain.Team) *Session {
	stats := domain.Stats{
		TotalQuestions: len(snapshot),
		CorrectAnswers: make(map[string]int, len(teams)),
		AnswerHistory:  make(map[string][]int, len(teams)),
	}
	for _, team := range teams {
		stats.CorrectAnswers[team.ID] = 0
		stats.AnswerHistory[team.ID] = nil
	}
	return &Session{
		questions: snapshot,
		teams:     teams,
		state:     domain.StateAwaitingAnswers,
		answers:   make(map[string]int, len(teams)),
		stats:     stats,
	}
}

// SubmitAnswer records a team's choice for the current question. Teams may
// change their minds freely until the reveal locks answers in.
func (s *Session) SubmitAnswer(teamID string, option int) error {
	switch s.state {
	case domain.StateResultsShown:
		return domain.ErrAnswersLocked
	case domain.StateFinished:
		return domain.ErrQuizFinished
	}
	if option < 0 || option >= domain.OptionCount {
		return domain.ErrOptionOutOfRange
	}
	if !s.hasTeam(teamID) {
		return domain.ErrTeamNotFound
	}
	s.answers[teamID] = option
	return nil
}

// Reveal locks in answers for the current question, scores every team, and
// moves to ResultsShown. It is refused until every team has answered, so no
// team sees the correct answer before everyone has committed.
func (s *Session) Reveal() error {
	switch s.state {
	case domain.StateResultsShown:
		return domain.ErrAnswersLocked
	case domain.StateFinished:
		return domain.ErrQuizFinished
	}
	if len(s.answers) < len(s.teams) {
		return domain.ErrNotAllAnswered
	}

	question := s.questions[s.index]
	for _, team := range s.teams {
		answer, ok := s.answers[team.ID]
		if !ok {
			answer = domain.NoAnswer
		}
		if answer == question.CorrectAnswer {
			team.Score += pointsPerCorrect
			s.stats.CorrectAnswers[team.ID]++
		}
		s.stats.AnswerHistory[team.ID] = append(s.stats.AnswerHistory[team.ID], answer)
	}
	s.state = domain.StateResultsShown
	return nil
}

// Advance moves past the revealed question: to Finished after the last one,
// otherwise to the next question with a cleared answer record.
func (s *Session) Advance() error {
	switch s.state {
	case domain.StateAwaitingAnswers:
		return domain.ErrResultsNotRevealed
	case domain.StateFinished:
		return domain.ErrQuizFinished
	}
	if s.index == len(s.questions)-1 {
		s.state = domain.StateFinished
		return nil
	}
	s.index++
	s.answers = make(map[string]int, len(s.teams))
	s.state = domain.StateAwaitingAnswers
	return nil
}

// Finished reports whether the session reached its terminal state.
func (s *Session) Finished() bool {
	return s.state == domain.StateFinished
}

// View returns a copy-safe snapshot of the current cycle.
func (s *Session) View() domain.SessionView {
	answers := make(map[string]int, len(s.answers))
	for teamID, option := range s.answers {
		answers[teamID] = option
	}
	view := domain.SessionView{
		State:          s.state,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.questions),
		Answers:        answers,
		AnsweredCount:  len(answers),
		LastQuestion:   s.index == len(s.questions)-1,
	}
	if s.state != domain.StateFinished {
		view.Question = copyQuestion(s.questions[s.index])
	}
	return view
}

// Stats returns a copy of the accumulated statistics.
func (s *Session) Stats() domain.Stats {
	stats := domain.Stats{
		TotalQuestions: s.stats.TotalQuestions,
		CorrectAnswers: make(map[string]int, len(s.stats.CorrectAnswers)),
		AnswerHistory:  make(map[string][]int, len(s.stats.AnswerHistory)),
	}
	for teamID, count := range s.stats.CorrectAnswers {
		stats.CorrectAnswers[teamID] = count
	}
	for teamID, history := range s.stats.AnswerHistory {
		stats.AnswerHistory[teamID] = append([]int(nil), history...)
	}
	return stats
}

// Questions returns the frozen snapshot the session plays over.
func (s *Session) Questions() []domain.Question {
	snapshot := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		snapshot = append(snapshot, copyQuestion(q))
	}
	return snapshot
}

func (s *Session) hasTeam(teamID string) bool {
	for _, team := range s.teams {
		if team.ID == teamID {
			return true
		}
	}
	return false
}
