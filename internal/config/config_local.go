//go:build !gcloud

package config

// Validate accepts an empty PRIMIND_TASKS_URL; the server then runs without
// delivery and pending requests never fire.
func (c *TaskQueueConfig) Validate() error {
	if c.PrimindTasksURL != "" && c.DeliveryCallbackURL == "" {
		return ErrCallbackURLMissing
	}
	return nil
}
