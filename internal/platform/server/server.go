package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Readiness は readiness の切り替え先です。
type Readiness interface {
	SetReady(bool)
}

// Options はサーバー構築時の設定です。
type Options struct {
	HTTPAddr        string
	GRPCAddr        string
	ShutdownTimeout time.Duration
}

// Server は HTTP サーバーと gRPC ヘルスサーバーのライフサイクルを管理します。
type Server struct {
	opts       Options
	httpServer *http.Server
	grpcServer *grpc.Server
	health     Readiness
	logger     *zap.Logger
}

// NewGRPCHealthServer は gRPC ヘルスサービスを登録済みのサーバーを生成します。
func NewGRPCHealthServer(opts ...grpc.ServerOption) (*grpc.Server, *grpchealth.Server) {
	srv := grpc.NewServer(opts...)
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

// New は Server を生成します。grpcServer が nil の場合は HTTP のみ起動します。
func New(opts Options, handler http.Handler, grpcServer *grpc.Server, health Readiness, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		opts: opts,
		httpServer: &http.Server{
			Addr:              opts.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcServer: grpcServer,
		health:     health,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると readiness を落としてから停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.opts.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.HTTPAddr, err)
	}

	var grpcLis net.Listener
	if s.grpcServer != nil && s.opts.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", s.opts.GRPCAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.opts.GRPCAddr, err)
		}
	}

	return s.serve(ctx, httpLis, grpcLis)
}

func (s *Server) serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", httpLis.Addr().String()))
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
		}
	}()

	if grpcLis != nil {
		go func() {
			s.logger.Info("gRPC health server listening", zap.String("addr", grpcLis.Addr().String()))
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("serve gRPC: %w", err)
			}
		}()
	}

	s.setReady(true)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	s.setReady(false)
	if err := s.shutdown(); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}

func (s *Server) shutdown() error {
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", zap.Duration("timeout", timeout))

	if s.grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		defer func() {
			select {
			case <-stopped:
			case <-ctx.Done():
				s.grpcServer.Stop()
			}
		}()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}

func (s *Server) setReady(v bool) {
	if s.health != nil {
		s.health.SetReady(v)
	}
}
