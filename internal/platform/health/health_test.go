package health

import (
	"context"
	"testing"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestService_ReadinessMirroredToGRPC(t *testing.T) {
	t.Parallel()

	grpcHealth := grpchealth.NewServer()
	svc := NewService(grpcHealth)

	if !svc.IsLive() {
		t.Fatal("expected service to be live")
	}
	if svc.IsReady() {
		t.Fatal("expected service not ready before startup completes")
	}
	assertGRPCStatus(t, grpcHealth, healthpb.HealthCheckResponse_NOT_SERVING)

	svc.SetReady(true)
	if !svc.IsReady() {
		t.Fatal("expected service to be ready")
	}
	assertGRPCStatus(t, grpcHealth, healthpb.HealthCheckResponse_SERVING)

	svc.SetReady(false)
	assertGRPCStatus(t, grpcHealth, healthpb.HealthCheckResponse_NOT_SERVING)
}

func TestService_WithoutGRPC(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	svc.SetReady(true)
	if !svc.IsReady() {
		t.Fatal("expected service to be ready")
	}
}

func assertGRPCStatus(t *testing.T, srv *grpchealth.Server, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()

	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("health check returned error: %v", err)
	}
	if resp.GetStatus() != want {
		t.Fatalf("expected %v, got %v", want, resp.GetStatus())
	}
}
