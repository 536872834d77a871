package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled when the daemon begins shutting down.
var serverBaseCtx = context.Background()

// SetBaseContext sets the shutdown context captions are bound to. nil resets it.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives from a and is additionally canceled when b is done.
// Values (request id, logger) come from a.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// captionContext bounds a describe call by the client connection, daemon
// shutdown and the configured caption timeout.
func captionContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
	if captionTimeout <= 0 {
		return ctx, cancel
	}
	tctx, cancelT := context.WithTimeout(ctx, captionTimeout)
	return tctx, func() {
		cancelT()
		cancel()
	}
}

// aborted reports whether the caller or the daemon gave up on r.
func aborted(r *http.Request) bool {
	return r.Context().Err() != nil || serverBaseCtx.Err() != nil
}
