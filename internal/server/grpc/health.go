package grpcserver

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports database liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves grpc.health.v1 and tracks database liveness.
type Health struct {
	hs       *health.Server
	srv      *grpc.Server
	db       Pinger
	interval time.Duration
	log      *zap.Logger
}

// NewHealth builds the health server. The overall status starts NOT_SERVING
// until the first successful ping.
func NewHealth(db Pinger, interval time.Duration, log *zap.Logger) *Health {
	log = log.With(zap.String("component", "grpc-health"))
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoverUnary(log),
		LoggingUnary(log),
	))
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return &Health{hs: hs, srv: srv, db: db, interval: interval, log: log}
}

// Check pings the database once and updates the status.
func (h *Health) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.hs.SetServingStatus("", st)
}

// Serve listens on addr until ctx is done, polling the database meanwhile.
func (h *Health) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return h.ServeListener(ctx, lis)
}

// ServeListener is Serve over an existing listener.
func (h *Health) ServeListener(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		h.log.Info("listening", zap.String("addr", lis.Addr().String()))
		errCh <- h.srv.Serve(lis)
	}()

	h.Check(ctx)
	tick := time.NewTicker(h.interval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			h.Check(ctx)
		case err := <-errCh:
			if errors.Is(err, grpc.ErrServerStopped) {
				return nil
			}
			return err
		case <-ctx.Done():
			h.hs.Shutdown()
			done := make(chan struct{})
			go func() {
				h.srv.GracefulStop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				h.srv.Stop()
			}
			return nil
		}
	}
}
