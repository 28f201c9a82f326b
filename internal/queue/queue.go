package queue

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Client enqueues delayed publish tasks. It satisfies service.Scheduler.
type Client struct {
	asynqClient *asynq.Client
}

func NewClient(asynqClient *asynq.Client) *Client {
	return &Client{asynqClient: asynqClient}
}

func (c *Client) EnqueuePost(postID int64, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}

	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, payload)

	_, err = c.asynqClient.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	slog.Info("publish task scheduled", "post_id", postID, "delay", delay)
	return nil
}
