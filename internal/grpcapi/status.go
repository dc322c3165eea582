package grpcapi

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/service"
)

// codeOf сопоставляет вид ошибки движка коду gRPC.
func codeOf(err error) codes.Code {
	switch kind := service.KindOf(err); {
	case errors.Is(kind, service.ErrInvalidInput):
		return codes.InvalidArgument
	case errors.Is(kind, service.ErrNotFound):
		return codes.NotFound
	case errors.Is(kind, service.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(kind, service.ErrNoAvailability):
		return codes.FailedPrecondition
	default:
		return codes.Unavailable
	}
}

// toStatus превращает ошибку движка в статус gRPC.
// Интервал и ID конфликтующей записи уходят клиенту в деталях (google.protobuf.Struct).
func toStatus(log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	st := status.New(codeOf(err), err.Error())

	var se *service.Error
	if !errors.As(err, &se) {
		return st.Err()
	}

	fields := map[string]any{
		"op":   se.Op,
		"kind": se.Kind.Error(),
	}
	if se.ResourceID != uuid.Nil {
		fields["resource_id"] = se.ResourceID.String()
	}
	if !se.Date.IsZero() {
		fields["date"] = se.Date.Format(interval.DateLayout)
	}
	if se.Span != nil {
		fields["start"] = interval.FormatClock(se.Span.Start)
		fields["end"] = interval.FormatClock(se.Span.End)
	}
	if se.ConflictID != uuid.Nil {
		fields["conflict_id"] = se.ConflictID.String()
	}

	detail, derr := structpb.NewStruct(fields)
	if derr != nil {
		log.Warn("build error details", zap.Error(derr))
		return st.Err()
	}
	withDetails, derr := st.WithDetails(detail)
	if derr != nil {
		log.Warn("attach error details", zap.Error(derr))
		return st.Err()
	}
	return withDetails.Err()
}

// ErrorDetails достаёт детали ошибки, приложенные сервером.
func ErrorDetails(err error) map[string]any {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		if s, ok := d.(*structpb.Struct); ok {
			return s.AsMap()
		}
	}
	return nil
}
