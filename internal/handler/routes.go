package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the reminder API on r.
func RegisterRoutes(r gin.IRouter, service ReminderService) {
	profiles := NewProfileHandler(service)
	queues := NewQueueHandler(service)
	activity := NewActivityHandler(service)
	deliveries := NewDeliveryHandler(service)

	v1 := r.Group("/api/v1")
	v1.POST("/deliveries", deliveries.HandleDelivery)

	users := v1.Group("/users/:user_id")
	{
		users.GET("/profiles", profiles.List)
		users.POST("/profiles", profiles.Create)
		users.PUT("/profiles/:profile_id", profiles.Update)
		users.DELETE("/profiles/:profile_id", profiles.Delete)
		users.POST("/profiles/:profile_id/activate", profiles.Activate)

		users.POST("/queue/ensure", queues.Ensure)
		users.POST("/queue/rebuild", queues.Rebuild)
		users.DELETE("/queue", queues.Clear)
		users.GET("/queue/debug", queues.Debug)

		users.POST("/snooze", activity.Snooze)
		users.POST("/exercises", activity.LogExercise)
		users.POST("/progress-report", activity.ScheduleProgressReport)
		users.GET("/timeline", activity.Timeline)
		users.DELETE("/timeline", activity.ClearTimeline)
		users.GET("/settings", activity.Settings)
		users.PUT("/settings", activity.UpdateSettings)
	}
}
