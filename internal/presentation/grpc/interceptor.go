package grpc

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tracerName = "github.com/olonibua/agricgrow-sub000/internal/presentation/grpc"

// UnaryInterceptor wraps every unary call in a server span and logs its status
// code and latency.
func UnaryInterceptor(logger *slog.Logger) grpclib.UnaryServerInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, req any, info *grpclib.UnaryServerInfo, handler grpclib.UnaryHandler) (any, error) {
		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		start := time.Now()
		resp, err := recoverHandler(ctx, handler, req, logger)

		code := status.Code(err)
		attrs := []any{
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		}
		switch code {
		case codes.OK:
			logger.DebugContext(ctx, "rpc completed", attrs...)
		case codes.Internal, codes.Unknown:
			span.SetStatus(otelcodes.Error, code.String())
			logger.ErrorContext(ctx, "rpc failed", append(attrs, "error", err)...)
		default:
			logger.InfoContext(ctx, "rpc rejected", append(attrs, "error", err)...)
		}
		return resp, err
	}
}

// recoverHandler turns a handler panic into codes.Internal.
func recoverHandler(ctx context.Context, handler grpclib.UnaryHandler, req any, logger *slog.Logger) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "rpc panicked", "panic", r, "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
