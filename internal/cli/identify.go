package cli

import (
	"fmt"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

// IdentifyCmd classifies notification identifiers.
type IdentifyCmd struct {
	Identifiers []string `arg:"" help:"Identifiers to classify."`
}

func (cmd *IdentifyCmd) Run(ctx *Context) error {
	for _, id := range cmd.Identifiers {
		kind := domain.KindOf(id)
		line := fmt.Sprintf("%s\tlane=%s", id, kind.Lane)
		if t, ok := domain.TimestampOf(id, ctx.Location); ok && kind.Lane.HasTimestamp() {
			line += "\tfire_at=" + t.Format("2006-01-02T15:04:05Z07:00")
		}
		if kind.AchievementID != "" {
			line += "\tachievement=" + kind.AchievementID
		}
		fmt.Fprintln(ctx.Out, line)
	}
	return nil
}
