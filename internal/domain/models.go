package domain

import "time"

// Team represents one competing team and its accumulated score.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// NoAnswer is the sentinel recorded in answer history when a team never
// submitted a choice for a question.
const NoAnswer = -1

// Question models an MCQ question with exactly four options and one
// correct index.
type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuestionPack is a named collection of questions used to seed a game's
// question bank.
type QuestionPack struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Settings holds the admin-facing quiz settings. They are stored and echoed
// back to clients but scoring always awards a fixed ten points per correct
// answer; the fields are display-only placeholders.
type Settings struct {
	PointsPerCorrect int    `json:"pointsPerCorrect" yaml:"points_per_correct"`
	PointsPerWrong   int    `json:"pointsPerWrong" yaml:"points_per_wrong"`
	QuestionSeconds  int    `json:"questionSeconds" yaml:"question_seconds"`
	Mode             string `json:"mode" yaml:"mode"`
}

// DefaultSettings mirrors the values the admin settings form starts with.
func DefaultSettings() Settings {
	return Settings{
		PointsPerCorrect: 10,
		PointsPerWrong:   0,
		QuestionSeconds:  30,
		Mode:             "standard",
	}
}

// Phase is the single authoritative view phase of a game.
type Phase string

const (
	// PhaseSetup covers roster and question editing before the quiz starts.
	PhaseSetup Phase = "setup"
	// PhasePlaying means a session is in progress.
	PhasePlaying Phase = "playing"
	// PhaseFinished means all questions are exhausted and the report is ready.
	PhaseFinished Phase = "finished"
)

// SessionState is the state of the in-progress question cycle.
type SessionState string

const (
	StateAwaitingAnswers SessionState = "awaitingAnswers"
	StateResultsShown    SessionState = "resultsShown"
	StateFinished        SessionState = "finished"
)

// Stats aggregates per-team results over a full session.
type Stats struct {
	TotalQuestions int              `json:"totalQuestions"`
	CorrectAnswers map[string]int   `json:"correctAnswers"`
	AnswerHistory  map[string][]int `json:"teamAnswerHistory"`
}

// SessionView is a copy-safe view of the session for clients.
type SessionView struct {
	State          SessionState   `json:"state"`
	QuestionIndex  int            `json:"questionIndex"`
	TotalQuestions int            `json:"totalQuestions"`
	Question       Question       `json:"question"`
	Answers        map[string]int `json:"answers"`
	AnsweredCount  int            `json:"answeredCount"`
	LastQuestion   bool           `json:"lastQuestion"`
}

// AnswerMark classifies one history entry for the final report.
type AnswerMark string

const (
	MarkNoAnswer  AnswerMark = "noAnswer"
	MarkCorrect   AnswerMark = "correct"
	MarkIncorrect AnswerMark = "incorrect"
)

// TeamResult is one ranked row of the final report.
type TeamResult struct {
	Rank     int          `json:"rank"`
	TeamID   string       `json:"teamId"`
	Name     string       `json:"name"`
	Score    int          `json:"score"`
	Correct  int          `json:"correct"`
	Accuracy int          `json:"accuracy"`
	History  []AnswerMark `json:"history"`
}

// Report is the final leaderboard plus aggregate statistics.
type Report struct {
	Rankings       []TeamResult `json:"rankings"`
	Winner         TeamResult   `json:"winner"`
	TotalQuestions int          `json:"totalQuestions"`
	MaxScore       int          `json:"maxScore"`
	AverageScore   int          `json:"averageScore"`
	TeamCount      int          `json:"teamCount"`
}

// GameSnapshot is the full client-facing state of a game, broadcast after
// every applied mutation.
type GameSnapshot struct {
	GameID    string       `json:"gameId"`
	Phase     Phase        `json:"phase"`
	Teams     []Team       `json:"teams"`
	Questions []Question   `json:"questions"`
	Settings  Settings     `json:"settings"`
	CanStart  bool         `json:"canStart"`
	Session   *SessionView `json:"session,omitempty"`
	Report    *Report      `json:"report,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
