package push

import (
	"context"
	"log/slog"

	"shopdispatch/internal/adapters/out/storewire"
	"shopdispatch/internal/core/domain/model/rider"
)

// forward decodes payload and hands it to out. It reports false once ctx is done.
func forward(ctx context.Context, out chan<- *rider.LivePosition, payload []byte, logger *slog.Logger) bool {
	p, err := storewire.DecodePosition(payload)
	if err != nil {
		logger.WarnContext(ctx, "Dropping undecodable push event", "error", err)
		return ctx.Err() == nil
	}

	select {
	case out <- p:
		return true
	case <-ctx.Done():
		return false
	}
}
