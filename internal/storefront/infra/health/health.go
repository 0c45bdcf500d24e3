// Package health serves grpc.health.v1 for the storefront. The status tracks
// the product source: NOT_SERVING while its circuit breaker is open.
package health

import (
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/karma-storefront/internal/pkg/interceptors"
)

// ProductSourceService is the health service name that follows the product
// source breaker. The empty name reports the same status.
const ProductSourceService = "storefront.ProductSource"

type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewServer() *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	s := &Server{grpc: grpcServer, health: hs}
	s.SetProductSourceOpen(false)
	return s
}

// SetProductSourceOpen is the breaker callback: open=true marks the
// storefront NOT_SERVING.
func (s *Server) SetProductSourceOpen(open bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if open {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		slog.Warn("product source breaker open, reporting NOT_SERVING")
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ProductSourceService, status)
}

// Checker exposes the health service for in-process checks.
func (s *Server) Checker() healthpb.HealthServer {
	return s.health
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
