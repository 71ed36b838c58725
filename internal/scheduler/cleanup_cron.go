package cron

import (
	"context"

	"github.com/Dias221467/Social_Circle/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartCleanupCronJobs schedules the recurring maintenance sweeps.
func StartCleanupCronJobs(notificationService *services.NotificationService) {
	c := cron.New()

	// Drop notifications past their expiry
	c.AddFunc("0 0 * * *", func() {
		err := notificationService.DeleteExpiredNotifications(context.Background())
		if err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	})

	// Remind receivers about friend requests sitting unanswered
	c.AddFunc("0 9 * * *", func() {
		err := notificationService.RemindStalePendingRequests(context.Background())
		if err != nil {
			logrus.WithError(err).Error("RemindStalePendingRequests failed")
		}
	})

	c.Start()
}
