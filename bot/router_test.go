package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterDispatch(t *testing.T) {
	var got Invocation
	r := NewRouter()
	r.Handle("createcard", func(_ context.Context, inv Invocation) { got = inv })

	inv := &fakeInvocation{command: "createcard", sender: "alice", args: []string{"Todo", "x"}}
	handled := r.Dispatch(context.Background(), inv)

	assert.True(t, handled)
	assert.Same(t, inv, got)
}

func TestRouterIgnoresUnknownCommands(t *testing.T) {
	r := NewRouter()
	r.Handle("start", func(_ context.Context, _ Invocation) {
		t.Fatal("wrong handler invoked")
	})

	inv := &fakeInvocation{command: "weather", sender: "alice"}
	handled := r.Dispatch(context.Background(), inv)

	assert.False(t, handled)
	assert.Empty(t, inv.replies)
}
