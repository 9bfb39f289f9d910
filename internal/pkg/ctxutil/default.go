package ctxutil

import "context"

// Default lets repo and service entry points accept a nil context.
func Default(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
