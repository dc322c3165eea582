package grpcapi

// Даты передаются как "2006-01-02", время суток — как "15:04" или "15:04:05".

type Booking struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	ClientID   string `json:"client_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type Availability struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type CreateBookingRequest struct {
	ResourceID string `json:"resource_id"`
	ClientID   string `json:"client_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type ModifyBookingRequest struct {
	BookingID  string `json:"booking_id"`
	ResourceID string `json:"resource_id"`
	ClientID   string `json:"client_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type CancelBookingRequest struct {
	BookingID string `json:"booking_id"`
}

type CancelBookingResponse struct{}

// PageRequest — параметры страницы; нули означают весь список.
type PageRequest struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

type PageInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
}

type ListBookingsByResourceAndDateRequest struct {
	ResourceID string `json:"resource_id"`
	Date       string `json:"date"`
	PageRequest
}

type ListBookingsByClientRequest struct {
	ClientID string `json:"client_id"`
	PageRequest
}

type ListAllBookingsRequest struct {
	PageRequest
}

type ListBookingsResponse struct {
	Bookings []Booking `json:"bookings"`
	PageInfo PageInfo  `json:"page_info"`
}

type AvailabilityRequest struct {
	ResourceID string `json:"resource_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type UpdateAvailabilityRequest struct {
	AvailabilityID string `json:"availability_id"`
	ResourceID     string `json:"resource_id"`
	Date           string `json:"date"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

type AvailabilityResponse struct {
	Availability Availability `json:"availability"`
}

// BulkPayload — параметры пакетного создания одним объектом.
type BulkPayload struct {
	ResourceID string `json:"resource_id"`
	DateFrom   string `json:"date_from"`
	DateTo     string `json:"date_to"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// CreateAvailabilityBulkRequest принимает либо отдельные поля, либо Payload, но не оба сразу.
type CreateAvailabilityBulkRequest struct {
	ResourceID string       `json:"resource_id,omitempty"`
	DateFrom   string       `json:"date_from,omitempty"`
	DateTo     string       `json:"date_to,omitempty"`
	Start      string       `json:"start,omitempty"`
	End        string       `json:"end,omitempty"`
	Payload    *BulkPayload `json:"payload,omitempty"`
}

type CreateAvailabilityBulkResponse struct {
	Created int `json:"created"`
}

type ListAvailabilityRequest struct {
	ResourceID string `json:"resource_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Month      *int   `json:"month,omitempty"`
	Year       *int   `json:"year,omitempty"`
	PageRequest
}

type ListAvailabilityResponse struct {
	Availability []Availability `json:"availability"`
	PageInfo     PageInfo       `json:"page_info"`
}
