package grpc

import (
	"net"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported alongside the overall server status.
const ServiceName = "greenleaf.Storefront"

// Server is the operations endpoint: gRPC health checks and reflection for grpcurl/grpcui.
type Server struct {
	server *grpc.Server
	health *health.Server
	log    logrus.FieldLogger
}

func NewServer(log logrus.FieldLogger) *Server {
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(s)

	return &Server{
		server: s,
		health: healthServer,
		log:    log,
	}
}

// Serve blocks until Stop is called or the listener fails.
func (s *Server) Serve(lis net.Listener) error {
	s.log.WithField("addr", lis.Addr().String()).Info("gRPC ops server listening")
	return s.server.Serve(lis)
}

// Stop reports NOT_SERVING to health watchers, then drains in-flight RPCs.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.log.Info("gRPC ops server stopped")
}
