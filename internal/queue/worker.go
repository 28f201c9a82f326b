package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := q.ps.ExecuteScheduled(ctx, payload.PostID); err != nil {
		slog.Error("error executing scheduled publish", "post_id", payload.PostID, "error", err)
		return err
	}

	return nil
}
