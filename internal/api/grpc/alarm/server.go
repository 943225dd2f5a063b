package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/order-kiosk/internal/domain/alarm"
	"github.com/oshokin/order-kiosk/internal/logger"
)

// anonymous is recorded for a remote dismissal without a valid actor.
const anonymous = "remote"

// Service abstracts the alarm unit operations the transport layer depends on.
type Service interface {
	Status() domain.Status
	Dismiss(by string)
}

// Server implements the AlarmUnit gRPC API.
type Server struct {
	// service provides the alarm unit state and cancellation.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetStatus returns the current state, remaining and queued seconds.
func (s *Server) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	msg, err := StatusToStruct(s.service.Status())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode status")
	}

	return msg, nil
}

// Dismiss raises the cancellation flag, exactly like the unit's button.
func (s *Server) Dismiss(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	by := ActorFromContext(ctx)

	logger.InfoKV(ctx, "Remote dismissal requested", "by", by)
	s.service.Dismiss(by)

	return new(emptypb.Empty), nil
}

// ActorFromContext returns the user@host sent by the caller or a generic
// marker when it is missing or malformed.
func ActorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return anonymous
	}

	for _, value := range md.Get(ActorMetadataKey) {
		if actor, ok := domain.ParseActor(value); ok {
			return actor.String()
		}
	}

	return anonymous
}

// Register adds the AlarmUnit service and a health service reporting it as
// serving to gs. The returned health server lets the caller flip the status
// on shutdown.
func Register(gs *grpc.Server, srv *Server) *health.Server {
	RegisterAlarmUnitServer(gs, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	return hs
}
