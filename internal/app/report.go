package app

import (
	"math"
	"sort"

	"team-quiz-service/internal/domain"
)

// ComputeReport ranks the final team list and derives aggregate statistics.
// It is pure: the same inputs always yield the same report, and ties keep
// the original roster order. History markers are cross-referenced against
// the frozen session snapshot, so bank edits made after the quiz never
// retroactively change historical correctness.
func ComputeReport(teams []domain.Team, stats domain.Stats, snapshot []domain.Question) domain.Report {
	ranked := append([]domain.Team(nil), teams...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	report := domain.Report{
		Rankings:       make([]domain.TeamResult, 0, len(ranked)),
		TotalQuestions: stats.TotalQuestions,
		MaxScore:       stats.TotalQuestions * pointsPerCorrect,
		TeamCount:      len(ranked),
	}

	total := 0
	for rank, team := range ranked {
		correct := stats.CorrectAnswers[team.ID]
		result := domain.TeamResult{
			Rank:     rank + 1,
			TeamID:   team.ID,
			Name:     team.Name,
			Score:    team.Score,
			Correct:  correct,
			Accuracy: roundPercent(correct, stats.TotalQuestions),
			History:  markHistory(stats.AnswerHistory[team.ID], snapshot),
		}
		report.Rankings = append(report.Rankings, result)
		total += team.Score
	}

	if len(report.Rankings) > 0 {
		report.Winner = report.Rankings[0]
		report.AverageScore = int(math.Round(float64(total) / float64(len(ranked))))
	}
	return report
}

// markHistory classifies each history entry against the question that was
// active at that index in the frozen snapshot.
func markHistory(history []int, snapshot []domain.Question) []domain.AnswerMark {
	marks := make([]domain.AnswerMark, 0, len(history))
	for i, answer := range history {
		switch {
		case answer == domain.NoAnswer:
			marks = append(marks, domain.MarkNoAnswer)
		case i < len(snapshot) && answer == snapshot[i].CorrectAnswer:
			marks = append(marks, domain.MarkCorrect)
		default:
			marks = append(marks, domain.MarkIncorrect)
		}
	}
	return marks
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
