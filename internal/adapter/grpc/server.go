// Package grpc runs the admin gRPC endpoint: standard health checking and
// server reflection behind a token interceptor.
package grpc

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/advisory-backend/internal/usecase/health"
)

// ServiceName is the health service name reported next to the overall ("") status
const ServiceName = "advisory.Backend"

// HealthChecker runs one round of dependency checks
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// AdminServer wraps a grpc.Server exposing grpc.health.v1 and reflection
type AdminServer struct {
	Checker HealthChecker

	server *grpc.Server
	health *grpchealth.Server
	logger zerolog.Logger
}

// NewAdminServer creates the gRPC server. Until RefreshHealth runs every
// service reports NOT_SERVING.
func NewAdminServer(apiToken string, checker HealthChecker, logger zerolog.Logger) *AdminServer {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(AuthInterceptor(apiToken)),
		grpc.StreamInterceptor(StreamAuthInterceptor(apiToken)),
	)

	healthServer := grpchealth.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	reflection.Register(server)

	return &AdminServer{
		Checker: checker,
		server:  server,
		health:  healthServer,
		logger:  logger.With().Str("component", "grpc_admin").Logger(),
	}
}

// RefreshHealth runs the checks and publishes the resulting serving status
func (s *AdminServer) RefreshHealth(ctx context.Context) health.Report {
	report := s.Checker.Check(ctx)

	status := healthpb.HealthCheckResponse_SERVING
	if !report.Serving() {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn().Interface("checks", report.Checks).Msg("dependencies unhealthy")
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	return report
}

// Serve accepts connections on lis until Stop or GracefulStop is called
func (s *AdminServer) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("grpc server listening")
	return s.server.Serve(lis)
}

// GracefulStop marks every service NOT_SERVING and drains in-flight calls
func (s *AdminServer) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
