package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/SaiNageswarS/go-mini-boot/logger"
	"github.com/SaiNageswarS/go-mini-boot/router"
	"github.com/SaiNageswarS/go-mini-boot/web"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	outcomeOK        = "ok"
	outcomeNotFound  = "route_not_found"
	outcomeMalformed = "malformed"
	outcomeError     = "error"
	outcomePanic     = "panic"
)

// handle serves exactly one request on conn and closes it.
func (s *BootServer) handle(conn net.Conn) {
	id := uuid.NewString()
	log := logger.Get().With(
		zap.String("requestId", id),
		zap.String("remote", conn.RemoteAddr().String()))
	defer closeConn(conn, log)

	start := time.Now()
	method := ""
	// a failure in one connection must not take down the process
	defer func() {
		if r := recover(); r != nil {
			log.Error("Connection handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			s.write(conn, web.ErrorMessage("internal error"), log)
			s.metrics.observe(method, outcomePanic, start)
		}
	}()

	req, err := web.ReadRequest(bufio.NewReader(conn), s.maxBody)
	if err == io.EOF {
		log.Debug("Connection closed before a request was sent")
		return
	}
	if err != nil {
		log.Warn("Malformed request", zap.Error(err))
		s.write(conn, web.Error(err), log)
		s.metrics.observe("", outcomeMalformed, start)
		return
	}
	req.ID = id
	req.RemoteAddr = conn.RemoteAddr().String()
	method = req.Method

	res, outcome := s.dispatch(req, log)
	s.write(conn, res, log)
	s.metrics.observe(req.Method, outcome, start)
}

func (s *BootServer) dispatch(req *web.Request, log *zap.Logger) (res web.Response, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			res, outcome = web.ErrorMessage("internal error"), outcomePanic
		}
	}()

	res, err := s.runtime.Router.Dispatch(req)
	if err != nil {
		var nf *router.RouteNotFoundError
		if errors.As(err, &nf) {
			log.Warn("Route not found", zap.String("method", req.Method), zap.String("path", req.Path))
			return web.Error(err), outcomeNotFound
		}
		log.Error("Dispatch failed", zap.Error(err))
		return web.Error(err), outcomeError
	}

	log.Info("Request served", zap.String("method", req.Method), zap.String("path", req.Path))
	return res, outcomeOK
}

func (s *BootServer) write(conn net.Conn, res web.Response, log *zap.Logger) {
	err := web.WriteResponse(conn, res, s.pretty)
	if err == nil {
		return
	}
	log.Error("Failed to write response", zap.Error(err))

	var netErr net.Error
	if errors.As(err, &netErr) {
		return
	}
	// rendering failed before anything was written
	if err := web.WriteResponse(conn, web.Error(err), s.pretty); err != nil {
		log.Error("Failed to write error response", zap.Error(err))
	}
}

func closeConn(conn net.Conn, log *zap.Logger) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	if err := conn.Close(); err != nil {
		log.Debug("Close failed", zap.Error(err))
	}
}
