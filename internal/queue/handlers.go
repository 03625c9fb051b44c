package queue

import (
	"github.com/hibiken/asynq"
)

// NewMux builds the task router for the worker process. Memory reindex is the
// only task type today; new background tasks register in the same map.
func NewMux(handlers map[string]asynq.Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for taskType, h := range handlers {
		mux.Handle(taskType, h)
	}
	return mux
}
