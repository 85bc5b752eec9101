package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game has not been opened yet.
	ErrGameNotFound = errors.New("game not found")
	// ErrPackNotFound indicates the question pack could not be loaded.
	ErrPackNotFound = errors.New("question pack not found")
	// ErrTeamNotFound is returned when an answer names an unknown team.
	ErrTeamNotFound = errors.New("team not found in session")
	// ErrOptionOutOfRange is returned for answer indices outside 0..3.
	ErrOptionOutOfRange = errors.New("answer option out of range")
	// ErrCannotStart means the start preconditions (at least two teams and a
	// non-empty question bank) do not hold.
	ErrCannotStart = errors.New("need at least two teams and one question to start")
	// ErrQuizAlreadyStarted is returned when Start is called twice.
	ErrQuizAlreadyStarted = errors.New("quiz already started")
	// ErrQuizNotStarted is returned for session operations before Start.
	ErrQuizNotStarted = errors.New("quiz not started")
	// ErrNotAllAnswered blocks the reveal until every team has answered.
	// This is the one deliberately user-visible error in the game flow.
	ErrNotAllAnswered = errors.New("all teams must answer before results can be revealed")
	// ErrAnswersLocked is returned when an answer arrives after the reveal.
	ErrAnswersLocked = errors.New("answers are locked once results are revealed")
	// ErrResultsNotRevealed is returned when advancing before the reveal.
	ErrResultsNotRevealed = errors.New("reveal results before advancing")
	// ErrQuizFinished is returned for session operations after the last question.
	ErrQuizFinished = errors.New("quiz already finished")
)
