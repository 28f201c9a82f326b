package queue

import (
	"github.com/postmux/postmux/internal/service"
)

type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
