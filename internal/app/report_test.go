package app

import (
	"reflect"
	"testing"

	"team-quiz-service/internal/domain"
)

func reportFixture() ([]domain.Team, domain.Stats, []domain.Question) {
	teams := []domain.Team{
		{ID: "a", Name: "Team A", Score: 10},
		{ID: "b", Name: "Team B", Score: 20},
		{ID: "c", Name: "Team C", Score: 10},
	}
	stats := domain.Stats{
		TotalQuestions: 3,
		CorrectAnswers: map[string]int{"a": 1, "b": 2, "c": 1},
		AnswerHistory: map[string][]int{
			"a": {1, 0, domain.NoAnswer},
			"b": {1, 3, 2},
			"c": {0, 3, 1},
		},
	}
	snapshot := []domain.Question{
		{ID: 1, Prompt: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
		{ID: 2, Prompt: "q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
		{ID: 3, Prompt: "q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
	}
	return teams, stats, snapshot
}

func TestComputeReportRanksAndTies(t *testing.T) {
	teams, stats, snapshot := reportFixture()
	report := ComputeReport(teams, stats, snapshot)

	if report.Winner.TeamID != "b" {
		t.Fatalf("expected b to win, got %s", report.Winner.TeamID)
	}
	// Tied teams keep roster order.
	if report.Rankings[1].TeamID != "a" || report.Rankings[2].TeamID != "c" {
		t.Fatalf("expected stable tie order a before c, got %s then %s",
			report.Rankings[1].TeamID, report.Rankings[2].TeamID)
	}
	if report.Rankings[0].Rank != 1 || report.Rankings[2].Rank != 3 {
		t.Fatalf("unexpected ranks: %+v", report.Rankings)
	}
	if report.TeamCount != 3 || report.TotalQuestions != 3 || report.MaxScore != 30 {
		t.Fatalf("unexpected aggregates: %+v", report)
	}
}

func TestComputeReportAccuracyAndAverage(t *testing.T) {
	teams, stats, snapshot := reportFixture()
	report := ComputeReport(teams, stats, snapshot)

	// 2/3 rounds to 67, 1/3 to 33.
	if report.Winner.Accuracy != 67 {
		t.Fatalf("expected winner accuracy 67, got %d", report.Winner.Accuracy)
	}
	if report.Rankings[1].Accuracy != 33 {
		t.Fatalf("expected accuracy 33, got %d", report.Rankings[1].Accuracy)
	}
	// (10+20+10)/3 rounds to 13.
	if report.AverageScore != 13 {
		t.Fatalf("expected average score 13, got %d", report.AverageScore)
	}
}

func TestComputeReportHistoryMarkers(t *testing.T) {
	teams, stats, snapshot := reportFixture()
	report := ComputeReport(teams, stats, snapshot)

	want := []domain.AnswerMark{domain.MarkCorrect, domain.MarkIncorrect, domain.MarkNoAnswer}
	if got := report.Rankings[1].History; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected history for a: %v", got)
	}
	allCorrect := []domain.AnswerMark{domain.MarkCorrect, domain.MarkCorrect, domain.MarkCorrect}
	if got := report.Winner.History; !reflect.DeepEqual(got, allCorrect) {
		t.Fatalf("unexpected history for winner: %v", got)
	}
}

func TestComputeReportUsesSnapshotNotCurrentBank(t *testing.T) {
	teams, stats, snapshot := reportFixture()
	// Editing the correct answer after the fact must not change history.
	edited := append([]domain.Question(nil), snapshot...)
	edited[0].CorrectAnswer = 0

	fromSnapshot := ComputeReport(teams, stats, snapshot)
	fromEdited := ComputeReport(teams, stats, edited)

	if fromSnapshot.Winner.History[0] != domain.MarkCorrect {
		t.Fatalf("expected correct marker from original snapshot")
	}
	if fromEdited.Winner.History[0] != domain.MarkIncorrect {
		t.Fatalf("expected edited snapshot to change the marker, proving the cross-reference")
	}
}

func TestComputeReportIsIdempotent(t *testing.T) {
	teams, stats, snapshot := reportFixture()
	first := ComputeReport(teams, stats, snapshot)
	second := ComputeReport(teams, stats, snapshot)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports, got\n%+v\n%+v", first, second)
	}
}

func TestComputeReportEmptyHistoryIsSafe(t *testing.T) {
	report := ComputeReport(nil, domain.Stats{}, nil)
	if len(report.Rankings) != 0 || report.AverageScore != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
