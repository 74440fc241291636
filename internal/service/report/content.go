package report

import (
	"fmt"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

// ProgressContent compares the current period with the previous one. With a
// previous total of zero the difference is given as an absolute count.
func ProgressContent(stats, previous ReportStats, frequency Frequency, f NumberFormatter) domain.Content {
	noun := frequency.noun()
	content := domain.Content{
		Title:    fmt.Sprintf("Your %s progress", string(frequency)),
		Sound:    "default",
		Category: domain.CategoryProgressReport,
		Badge:    1,
	}

	if stats.TotalExercises == 0 {
		content.Body = fmt.Sprintf("No exercises logged this %s yet. A two-minute stretch is a great start!", noun)
		return content
	}

	summary := fmt.Sprintf("You completed %s %s this %s (%s active minutes)",
		f.Int(stats.TotalExercises), plural(stats.TotalExercises, "exercise"), noun, f.Int(stats.ActiveMinutes()))

	delta := stats.TotalExercises - previous.TotalExercises
	switch {
	case previous.TotalExercises > 0:
		pct := delta * 100 / previous.TotalExercises
		switch {
		case pct > 0:
			content.Body = fmt.Sprintf("%s, up %s from last %s. Keep it up!", summary, f.Percent(pct), noun)
		case pct < 0:
			content.Body = fmt.Sprintf("%s, down %s from last %s.", summary, f.Percent(-pct), noun)
		default:
			content.Body = fmt.Sprintf("%s, the same pace as last %s.", summary, noun)
		}
	default:
		content.Body = fmt.Sprintf("%s, %s more than last %s. Great start!", summary, f.Int(delta), noun)
	}

	return content
}

func AchievementContent(a Achievement, f NumberFormatter) domain.Content {
	return domain.Content{
		Title:    "Achievement unlocked: " + a.Name,
		Body:     a.describe(f),
		Sound:    "default",
		Category: domain.CategoryAchievement,
		Badge:    1,
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
