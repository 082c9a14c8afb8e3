package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/SaiNageswarS/go-mini-boot/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BootServer accepts connections and hands each one to its own goroutine.
type BootServer struct {
	runtime  *Runtime
	listener net.Listener
	metrics  *metrics
	limiter  *rate.Limiter
	pretty   bool
	maxBody  int64

	metricsListener net.Listener
	metricsSrv      *http.Server
}

func (s *BootServer) Addr() net.Addr { return s.listener.Addr() }

// MetricsAddr is nil when no metrics port was configured.
func (s *BootServer) MetricsAddr() net.Addr {
	if s.metricsListener == nil {
		return nil
	}
	return s.metricsListener.Addr()
}

func (s *BootServer) Runtime() *Runtime { return s.runtime }

// Serve runs until ctx is cancelled or the listener fails. In-flight
// connections are not waited for.
func (s *BootServer) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	logger.Info("Starting server", zap.String("addr", s.Addr().String()))
	g.Go(func() error { return s.acceptLoop(ctx) })

	if s.metricsSrv != nil {
		logger.Info("Starting metrics server", zap.String("addr", s.MetricsAddr().String()))
		g.Go(func() error {
			if err := s.metricsSrv.Serve(s.metricsListener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.listener.Close()
		if s.metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.metricsSrv.Shutdown(shutdownCtx)
		}
		return nil
	})

	err := g.Wait()
	logger.Info("Server stopped", zap.Error(err))
	return err
}

func (s *BootServer) acceptLoop(ctx context.Context) error {
	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logger.Warn("Accept timed out", zap.Error(err))
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.metrics.connections.Inc()
		go s.handle(conn)
	}
}
