package bot

import (
	"context"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, inv Invocation)

// Router dispatches invocations to statically registered command handlers.
type Router struct {
	handlers map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

func (r *Router) Handle(command string, fn HandlerFunc) {
	r.handlers[command] = fn
}

// Dispatch runs the handler registered for the invocation's command and
// reports whether one was registered. Unknown commands are ignored.
func (r *Router) Dispatch(ctx context.Context, inv Invocation) bool {
	fn, ok := r.handlers[inv.Command()]
	if !ok {
		zap.L().Debug("Ignoring unknown command", zap.String("command", inv.Command()), zap.String("user", inv.Sender()))
		return false
	}
	fn(ctx, inv)
	return true
}
