package logger

import (
	"context"

	"github.com/avbinvest/staffsync/pkg/log/ctxlogger"
	"go.uber.org/zap"
)

// FromContext returns the request-scoped logger.
func FromContext(ctx context.Context) *zap.Logger {
	return ctxlogger.FromContext(ctx)
}
