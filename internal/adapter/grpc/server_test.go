package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/advisory-backend/internal/usecase/health"
)

type stubChecker struct {
	report health.Report
}

func (s *stubChecker) Check(context.Context) health.Report { return s.report }

func startAdminServer(t *testing.T, checker HealthChecker) (*AdminServer, healthpb.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewAdminServer("secret", checker, zerolog.Nop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, healthpb.NewHealthClient(conn)
}

func TestAdminServer_HealthFollowsChecks(t *testing.T) {
	checker := &stubChecker{report: health.Report{Status: health.StatusUnhealthy}}
	srv, client := startAdminServer(t, checker)
	ctx := context.Background()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus(), "not serving before the first refresh")

	checker.report = health.Report{Status: health.StatusDegraded}
	srv.RefreshHealth(ctx)

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	checker.report = health.Report{Status: health.StatusUnhealthy, Checks: map[string]string{"database": "down"}}
	report := srv.RefreshHealth(ctx)
	assert.False(t, report.Serving())

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
