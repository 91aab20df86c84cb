package utils

import (
	"context"

	"github.com/teivah/onecontext"
)

// MergeContexts returns a context that is done as soon as any of the supplied contexts is done. Contexts
// that can never be done, such as context.Background(), are left out of the merge. The returned cancel
// func must be called to release the merge once the caller is finished with it.
func MergeContexts(ctx context.Context, ctxs ...context.Context) (context.Context, context.CancelFunc) {
	live := make([]context.Context, 0, len(ctxs)+1)
	for _, c := range append([]context.Context{ctx}, ctxs...) {
		if c != nil && c.Done() != nil {
			live = append(live, c)
		}
	}

	switch len(live) {
	case 0:
		return context.WithCancel(context.Background())
	case 1:
		return context.WithCancel(live[0])
	default:
		return onecontext.Merge(live[0], live[1:]...)
	}
}
