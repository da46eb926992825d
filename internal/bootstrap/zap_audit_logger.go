package bootstrap

import (
	"context"
	"time"

	"go-erp/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ZapAuditLogger writes audit entries as structured log lines on the
// "audit" logger.
type ZapAuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewZapAuditLogger(logger *zap.Logger) *ZapAuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &ZapAuditLogger{logger: logger.Named("audit"), now: time.Now}
}

func (l *ZapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := append(contextutil.ExtractMetadata(ctx).Fields(),
		zap.Time("at", l.now().UTC()),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
	l.logger.Info("audit event", fields...)
}

// NewLogger builds the process logger: JSON in production, console
// otherwise. It is also installed as the zap global.
func NewLogger(production bool) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if production {
		build = zap.NewProduction
	}
	logger, err := build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
