package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/postmux/postmux/internal/repository"
	"github.com/postmux/postmux/internal/service"
)

// graceWindow is how far past its scheduled time a post may sit before the
// sweep treats the queue task as lost and re-runs the publish itself.
const graceWindow = 10 * time.Minute

// ScheduleSweepJob is the safety net under the delayed task queue: if a
// queue task was never enqueued or dropped, the sweep finds the overdue
// scheduled post and publishes it directly.
type ScheduleSweepJob struct {
	pr repository.PostRepository
	ps service.PublishService
}

func NewScheduleSweepJob(pr repository.PostRepository, ps service.PublishService) *ScheduleSweepJob {
	return &ScheduleSweepJob{
		pr: pr,
		ps: ps,
	}
}

func (c *ScheduleSweepJob) SweepOverdue() {
	ctx := context.Background()

	overdue, err := c.pr.ListOverdueScheduled(ctx, time.Now().Add(-graceWindow))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, post := range overdue {
		slog.Info("sweeping overdue scheduled post", "post_id", post.ID, "platform", post.Platform, "scheduled_time", post.ScheduledTime.Time)
		if err := c.ps.ExecuteScheduled(ctx, post.ID); err != nil {
			slog.Info("Unable to publish overdue post", "post_id", post.ID, "error", err)
		}
	}
}
