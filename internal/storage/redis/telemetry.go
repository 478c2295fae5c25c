package redis

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// Instrument adds OpenTelemetry tracing and metrics to the client, plus a hook
// that logs every command at debug level
func Instrument(client redis.UniversalClient, logger *slog.Logger) error {
	if err := redisotel.InstrumentTracing(client); err != nil {
		return fmt.Errorf("instrument tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		return fmt.Errorf("instrument metrics: %w", err)
	}
	if logger != nil {
		client.AddHook(logHook{logger: logger.With(slog.String("component", "redis"))})
	}
	return nil
}

type logHook struct {
	logger *slog.Logger
}

func (h logHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.WarnContext(ctx, "redis dial failed",
				slog.String("addr", addr),
				slog.String("error", err.Error()))
			return nil, err
		}
		h.logger.DebugContext(ctx, "redis dialed", slog.String("addr", addr))
		return conn, nil
	}
}

func (h logHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		h.logger.DebugContext(ctx, "redis command",
			slog.String("cmd", cmd.Name()),
			slog.Bool("failed", err != nil && err != redis.Nil))
		return err
	}
}

func (h logHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		h.logger.DebugContext(ctx, "redis pipeline", slog.Int("commands", len(cmds)))
		return err
	}
}
