package cli

import (
	"encoding/json"
	"fmt"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/profile"
)

// MigrateCmd prints the profile that legacy settings migrate to.
type MigrateCmd struct {
	Settings string `arg:"" help:"Legacy settings JSON file." type:"existingfile"`
}

func (cmd *MigrateCmd) Run(ctx *Context) error {
	var settings domain.LegacySettings
	if err := readJSON(cmd.Settings, &settings); err != nil {
		return err
	}

	p := profile.FromLegacy(&settings, ctx.now())
	if err := p.Validate(); err != nil {
		return fmt.Errorf("legacy settings not convertible: %w", err)
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, string(out))
	return nil
}
