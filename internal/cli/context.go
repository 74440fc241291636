package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Context is shared by every reminderctl command.
type Context struct {
	Out      io.Writer
	Location *time.Location
	Now      func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now().In(c.Location)
	}
	return time.Now().In(c.Location)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
