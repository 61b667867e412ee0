// Package grpcapi exposes the controller's liveness over the standard gRPC
// health protocol.
package grpcapi

import (
	"errors"
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside "".
const ServiceName = "smartlock.v1.AccessController"

// HealthServer serves grpc.health.v1.Health. It starts NOT_SERVING and
// follows SetRunning.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *log.Logger
}

func NewHealthServer(logger *log.Logger) *HealthServer {
	gs := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)

	h := &HealthServer{grpcServer: gs, health: hs, logger: logger}
	h.SetRunning(false)
	return h
}

// SetRunning maps the control loop's liveness onto serving status.
func (h *HealthServer) SetRunning(running bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if running {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Serve blocks serving on lis until Shutdown.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Printf("grpc health listening on %s", lis.Addr())
	if err := h.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown marks every service NOT_SERVING and stops gracefully.
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
	h.grpcServer.GracefulStop()
}
