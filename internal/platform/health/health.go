// Package health はプロセスの liveness / readiness を管理します。
package health

import (
	"sync/atomic"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service は liveness / readiness の状態を保持し、gRPC ヘルスサーバーへ反映します。
type Service struct {
	live  atomic.Bool
	ready atomic.Bool
	grpc  *grpchealth.Server
}

// NewService は Service を生成します。readiness は起動完了後に SetReady で有効化します。
// grpc が nil の場合、gRPC ヘルスサーバーへの反映は行いません。
func NewService(grpc *grpchealth.Server) *Service {
	s := &Service{grpc: grpc}
	s.live.Store(true)
	s.SetReady(false)
	return s
}

// SetReady は readiness を切り替えます。
func (s *Service) SetReady(v bool) {
	s.ready.Store(v)
	if s.grpc == nil {
		return
	}
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if v {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.grpc.SetServingStatus("", status)
}

// IsLive はプロセスが応答可能かを返します。
func (s *Service) IsLive() bool {
	return s.live.Load()
}

// IsReady はリクエストを受け付けられるかを返します。
func (s *Service) IsReady() bool {
	return s.ready.Load()
}
