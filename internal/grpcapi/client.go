package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// Client — типизированный клиент сервиса Allocator.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, req *CreateBookingRequest, opts ...grpc.CallOption) (*BookingResponse, error) {
	return invoke[BookingResponse](ctx, c.cc, "CreateBooking", req, opts)
}

func (c *Client) CancelBooking(ctx context.Context, req *CancelBookingRequest, opts ...grpc.CallOption) (*CancelBookingResponse, error) {
	return invoke[CancelBookingResponse](ctx, c.cc, "CancelBooking", req, opts)
}

func (c *Client) ModifyBooking(ctx context.Context, req *ModifyBookingRequest, opts ...grpc.CallOption) (*BookingResponse, error) {
	return invoke[BookingResponse](ctx, c.cc, "ModifyBooking", req, opts)
}

func (c *Client) ListBookingsByResourceAndDate(
	ctx context.Context,
	req *ListBookingsByResourceAndDateRequest,
	opts ...grpc.CallOption,
) (*ListBookingsResponse, error) {
	return invoke[ListBookingsResponse](ctx, c.cc, "ListBookingsByResourceAndDate", req, opts)
}

func (c *Client) ListBookingsByClient(ctx context.Context, req *ListBookingsByClientRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	return invoke[ListBookingsResponse](ctx, c.cc, "ListBookingsByClient", req, opts)
}

func (c *Client) ListAllBookings(ctx context.Context, req *ListAllBookingsRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	return invoke[ListBookingsResponse](ctx, c.cc, "ListAllBookings", req, opts)
}

func (c *Client) CreateAvailability(ctx context.Context, req *AvailabilityRequest, opts ...grpc.CallOption) (*AvailabilityResponse, error) {
	return invoke[AvailabilityResponse](ctx, c.cc, "CreateAvailability", req, opts)
}

func (c *Client) AddAvailability(ctx context.Context, req *AvailabilityRequest, opts ...grpc.CallOption) (*AvailabilityResponse, error) {
	return invoke[AvailabilityResponse](ctx, c.cc, "AddAvailability", req, opts)
}

func (c *Client) CreateAvailabilityBulk(
	ctx context.Context,
	req *CreateAvailabilityBulkRequest,
	opts ...grpc.CallOption,
) (*CreateAvailabilityBulkResponse, error) {
	return invoke[CreateAvailabilityBulkResponse](ctx, c.cc, "CreateAvailabilityBulk", req, opts)
}

func (c *Client) UpdateAvailability(ctx context.Context, req *UpdateAvailabilityRequest, opts ...grpc.CallOption) (*AvailabilityResponse, error) {
	return invoke[AvailabilityResponse](ctx, c.cc, "UpdateAvailability", req, opts)
}

func (c *Client) ListAvailability(ctx context.Context, req *ListAvailabilityRequest, opts ...grpc.CallOption) (*ListAvailabilityResponse, error) {
	return invoke[ListAvailabilityResponse](ctx, c.cc, "ListAvailability", req, opts)
}
