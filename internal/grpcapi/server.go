package grpcapi

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/paging"
	"github.com/Leganyst/timeslot-allocator/internal/service"
)

const ServiceName = "timeslot.v1.Allocator"

// BookingEngine — создание, отмена и перенос бронирований.
type BookingEngine interface {
	CreateBooking(ctx context.Context, in service.BookingInput) (*model.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) error
	ModifyBooking(ctx context.Context, id uuid.UUID, in service.BookingInput) (*model.Booking, error)
}

// AvailabilityEngine — управление свободными интервалами.
type AvailabilityEngine interface {
	CreateAvailability(ctx context.Context, in service.AvailabilityInput) (*model.AvailabilityInterval, error)
	AddAvailability(ctx context.Context, in service.AvailabilityInput) (*model.AvailabilityInterval, error)
	CreateAvailabilityBulk(ctx context.Context, in service.BulkAvailabilityInput) (int, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, in service.AvailabilityInput) (*model.AvailabilityInterval, error)
}

type Query interface {
	ListBookingsByResourceAndDate(ctx context.Context, resourceID uuid.UUID, date time.Time, page paging.Request) (paging.Page[model.Booking], error)
	ListBookingsByClient(ctx context.Context, clientID uuid.UUID, page paging.Request) (paging.Page[model.Booking], error)
	ListAllBookings(ctx context.Context, page paging.Request) (paging.Page[model.Booking], error)
	ListAvailability(ctx context.Context, q service.AvailabilityQuery) (paging.Page[model.AvailabilityInterval], error)
}

// AllocatorServer — серверная сторона сервиса Allocator.
type AllocatorServer interface {
	CreateBooking(context.Context, *CreateBookingRequest) (*BookingResponse, error)
	CancelBooking(context.Context, *CancelBookingRequest) (*CancelBookingResponse, error)
	ModifyBooking(context.Context, *ModifyBookingRequest) (*BookingResponse, error)
	ListBookingsByResourceAndDate(context.Context, *ListBookingsByResourceAndDateRequest) (*ListBookingsResponse, error)
	ListBookingsByClient(context.Context, *ListBookingsByClientRequest) (*ListBookingsResponse, error)
	ListAllBookings(context.Context, *ListAllBookingsRequest) (*ListBookingsResponse, error)
	CreateAvailability(context.Context, *AvailabilityRequest) (*AvailabilityResponse, error)
	AddAvailability(context.Context, *AvailabilityRequest) (*AvailabilityResponse, error)
	CreateAvailabilityBulk(context.Context, *CreateAvailabilityBulkRequest) (*CreateAvailabilityBulkResponse, error)
	UpdateAvailability(context.Context, *UpdateAvailabilityRequest) (*AvailabilityResponse, error)
	ListAvailability(context.Context, *ListAvailabilityRequest) (*ListAvailabilityResponse, error)
}

// Server разбирает запросы, вызывает движки и переводит их ошибки в статусы gRPC.
type Server struct {
	bookings     BookingEngine
	availability AvailabilityEngine
	query        Query
	log          *zap.Logger
}

func NewServer(bookings BookingEngine, availability AvailabilityEngine, query Query, log *zap.Logger) *Server {
	return &Server{
		bookings:     bookings,
		availability: availability,
		query:        query,
		log:          log.Named("grpc"),
	}
}

var _ AllocatorServer = (*Server)(nil)

func (s *Server) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*BookingResponse, error) {
	in, err := bookingInput(req.ResourceID, req.ClientID, req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.CreateBooking(ctx, in)
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return &BookingResponse{Booking: toBooking(b)}, nil
}

func (s *Server) CancelBooking(ctx context.Context, req *CancelBookingRequest) (*CancelBookingResponse, error) {
	id, err := parseID("booking_id", req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.CancelBooking(ctx, id); err != nil {
		return nil, toStatus(s.log, err)
	}
	return &CancelBookingResponse{}, nil
}

func (s *Server) ModifyBooking(ctx context.Context, req *ModifyBookingRequest) (*BookingResponse, error) {
	id, err := parseID("booking_id", req.BookingID)
	if err != nil {
		return nil, err
	}
	in, err := bookingInput(req.ResourceID, req.ClientID, req.Date, req.Start, req.End)
	if err != nil {
		// пустой ввод не проходит валидацию движка, но сначала проверяется существование бронирования
		if _, merr := s.bookings.ModifyBooking(ctx, id, service.BookingInput{}); errors.Is(merr, service.ErrNotFound) {
			return nil, toStatus(s.log, merr)
		}
		return nil, err
	}
	b, err := s.bookings.ModifyBooking(ctx, id, in)
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return &BookingResponse{Booking: toBooking(b)}, nil
}

func (s *Server) ListBookingsByResourceAndDate(
	ctx context.Context,
	req *ListBookingsByResourceAndDateRequest,
) (*ListBookingsResponse, error) {
	resourceID, err := parseID("resource_id", req.ResourceID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	page, err := s.query.ListBookingsByResourceAndDate(ctx, resourceID, date, toPageRequest(req.PageRequest))
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return bookingsResponse(page), nil
}

func (s *Server) ListBookingsByClient(ctx context.Context, req *ListBookingsByClientRequest) (*ListBookingsResponse, error) {
	clientID, err := parseID("client_id", req.ClientID)
	if err != nil {
		return nil, err
	}
	page, err := s.query.ListBookingsByClient(ctx, clientID, toPageRequest(req.PageRequest))
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return bookingsResponse(page), nil
}

func (s *Server) ListAllBookings(ctx context.Context, req *ListAllBookingsRequest) (*ListBookingsResponse, error) {
	page, err := s.query.ListAllBookings(ctx, toPageRequest(req.PageRequest))
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return bookingsResponse(page), nil
}

func (s *Server) CreateAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	in, err := availabilityInput(req.ResourceID, req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	a, err := s.availability.CreateAvailability(ctx, in)
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return &AvailabilityResponse{Availability: toAvailability(a)}, nil
}

func (s *Server) AddAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	in, err := availabilityInput(req.ResourceID, req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	a, err := s.availability.AddAvailability(ctx, in)
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return &AvailabilityResponse{Availability: toAvailability(a)}, nil
}

func (s *Server) CreateAvailabilityBulk(
	ctx context.Context,
	req *CreateAvailabilityBulkRequest,
) (*CreateAvailabilityBulkResponse, error) {
	in, err := BulkInput(req)
	if err != nil {
		return nil, err
	}
	n, err := s.availability.CreateAvailabilityBulk(ctx, in)
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return &CreateAvailabilityBulkResponse{Created: n}, nil
}

func (s *Server) UpdateAvailability(ctx context.Context, req *UpdateAvailabilityRequest) (*AvailabilityResponse, error) {
	id, err := parseID("availability_id", req.AvailabilityID)
	if err != nil {
		return nil, err
	}
	in, err := availabilityInput(req.ResourceID, req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	a, err := s.availability.UpdateAvailability(ctx, id, in)
	if err != nil {
		return nil, toStatus(s.log, err)
	}
	return &AvailabilityResponse{Availability: toAvailability(a)}, nil
}

func (s *Server) ListAvailability(ctx context.Context, req *ListAvailabilityRequest) (*ListAvailabilityResponse, error) {
	q := service.AvailabilityQuery{
		Month: req.Month,
		Year:  req.Year,
		Page:  toPageRequest(req.PageRequest),
	}

	var err error
	if q.ResourceID, err = parseOptionalID("resource_id", req.ResourceID); err != nil {
		return nil, err
	}
	if req.Date != "" {
		d, err := parseDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		q.Date = &d
	}

	page, err := s.query.ListAvailability(ctx, q)
	if err != nil {
		return nil, toStatus(s.log, err)
	}

	resp := &ListAvailabilityResponse{
		Availability: make([]Availability, 0, len(page.Items)),
		PageInfo:     toPageInfo(page),
	}
	for i := range page.Items {
		resp.Availability = append(resp.Availability, toAvailability(&page.Items[i]))
	}
	return resp, nil
}

// BulkInput приводит запрос пакетного создания к BulkAvailabilityInput:
// параметры берутся либо из отдельных полей, либо из Payload.
func BulkInput(req *CreateAvailabilityBulkRequest) (service.BulkAvailabilityInput, error) {
	p := BulkPayload{
		ResourceID: req.ResourceID,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		Start:      req.Start,
		End:        req.End,
	}
	if req.Payload != nil {
		if p != (BulkPayload{}) {
			return service.BulkAvailabilityInput{}, status.Error(codes.InvalidArgument,
				"pass bulk parameters either as fields or as payload, not both")
		}
		p = *req.Payload
	}

	var (
		in  service.BulkAvailabilityInput
		err error
	)
	if in.ResourceID, err = parseID("resource_id", p.ResourceID); err != nil {
		return in, err
	}
	if in.DateFrom, err = parseDate("date_from", p.DateFrom); err != nil {
		return in, err
	}
	if in.DateTo, err = parseDate("date_to", p.DateTo); err != nil {
		return in, err
	}
	if in.Start, err = parseClock("start", p.Start); err != nil {
		return in, err
	}
	if in.End, err = parseClock("end", p.End); err != nil {
		return in, err
	}
	return in, nil
}

func bookingInput(resourceID, clientID, date, start, end string) (service.BookingInput, error) {
	var (
		in  service.BookingInput
		err error
	)
	if in.ResourceID, err = parseID("resource_id", resourceID); err != nil {
		return in, err
	}
	if in.ClientID, err = parseID("client_id", clientID); err != nil {
		return in, err
	}
	if in.Date, err = parseDate("date", date); err != nil {
		return in, err
	}
	if in.Start, err = parseClock("start", start); err != nil {
		return in, err
	}
	if in.End, err = parseClock("end", end); err != nil {
		return in, err
	}
	return in, nil
}

func availabilityInput(resourceID, date, start, end string) (service.AvailabilityInput, error) {
	var (
		in  service.AvailabilityInput
		err error
	)
	if in.ResourceID, err = parseID("resource_id", resourceID); err != nil {
		return in, err
	}
	if in.Date, err = parseDate("date", date); err != nil {
		return in, err
	}
	if in.Start, err = parseClock("start", start); err != nil {
		return in, err
	}
	if in.End, err = parseClock("end", end); err != nil {
		return in, err
	}
	return in, nil
}

func bookingsResponse(page paging.Page[model.Booking]) *ListBookingsResponse {
	resp := &ListBookingsResponse{
		Bookings: make([]Booking, 0, len(page.Items)),
		PageInfo: toPageInfo(page),
	}
	for i := range page.Items {
		resp.Bookings = append(resp.Bookings, toBooking(&page.Items[i]))
	}
	return resp
}

// ===== Регистрация сервиса =====

// unary собирает описание метода для ServiceDesc.
func unary[Req, Resp any](name string, call func(AllocatorServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AllocatorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AllocatorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AllocatorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateBooking", AllocatorServer.CreateBooking),
		unary("CancelBooking", AllocatorServer.CancelBooking),
		unary("ModifyBooking", AllocatorServer.ModifyBooking),
		unary("ListBookingsByResourceAndDate", AllocatorServer.ListBookingsByResourceAndDate),
		unary("ListBookingsByClient", AllocatorServer.ListBookingsByClient),
		unary("ListAllBookings", AllocatorServer.ListAllBookings),
		unary("CreateAvailability", AllocatorServer.CreateAvailability),
		unary("AddAvailability", AllocatorServer.AddAvailability),
		unary("CreateAvailabilityBulk", AllocatorServer.CreateAvailabilityBulk),
		unary("UpdateAvailability", AllocatorServer.UpdateAvailability),
		unary("ListAvailability", AllocatorServer.ListAvailability),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterAllocatorServer(s grpc.ServiceRegistrar, srv AllocatorServer) {
	s.RegisterService(&ServiceDesc, srv)
}
