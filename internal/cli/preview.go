package cli

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/nexttime"
)

// PreviewCmd prints the reminders a profile would schedule.
type PreviewCmd struct {
	Profile string `arg:"" help:"Schedule profile JSON file." type:"existingfile"`
	From    string `help:"Start instant (RFC3339). Defaults to now."`
	Count   int    `help:"Number of reminders to print." default:"10"`
	Seed    uint64 `help:"Jitter seed. Zero disables jitter."`
}

func (cmd *PreviewCmd) Run(ctx *Context) error {
	var p domain.ScheduleProfile
	if err := readJSON(cmd.Profile, &p); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.Normalize()

	from := ctx.now()
	if cmd.From != "" {
		parsed, err := time.Parse(time.RFC3339, cmd.From)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		from = parsed.In(ctx.Location)
	}

	jitter := nexttime.NoJitter()
	if cmd.Seed != 0 {
		jitter = nexttime.NewRandomJitter(cmd.Seed)
	}

	instants := nexttime.Sequence(nexttime.NewCalculator(jitter).Source(&p), from, cmd.Count)
	if len(instants) == 0 {
		fmt.Fprintln(ctx.Out, "no reminders within the next seven days")
		return nil
	}

	for _, t := range instants {
		fmt.Fprintf(ctx.Out, "%s  %s\n", t.Format("Mon 2006-01-02 15:04"), domain.ExerciseIdentifier(t))
	}
	return nil
}
