package domain

import (
	"context"
	"time"
)

// InquiryCategory classifies a customer inquiry
type InquiryCategory string

const (
	CategoryGeneral            InquiryCategory = "GENERAL"
	CategoryTechnical          InquiryCategory = "TECHNICAL"
	CategoryPayment            InquiryCategory = "PAYMENT"
	CategoryReturns            InquiryCategory = "RETURNS"
	CategoryShipping           InquiryCategory = "SHIPPING"
	CategoryProductInformation InquiryCategory = "PRODUCT_INFORMATION"
	CategoryOther              InquiryCategory = "OTHER"
)

// Valid reports whether the category is one of the known values
func (c InquiryCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryTechnical, CategoryPayment, CategoryReturns,
		CategoryShipping, CategoryProductInformation, CategoryOther:
		return true
	}
	return false
}

// InquiryPriority represents inquiry triage priority
type InquiryPriority string

const (
	PriorityLow    InquiryPriority = "LOW"
	PriorityMedium InquiryPriority = "MEDIUM"
	PriorityHigh   InquiryPriority = "HIGH"
)

// Valid reports whether the priority is one of the known values
func (p InquiryPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// InquiryStatus represents the triage workflow state of an inquiry
type InquiryStatus string

const (
	InquiryPending    InquiryStatus = "PENDING"
	InquiryInProgress InquiryStatus = "IN_PROGRESS"
	InquiryResolved   InquiryStatus = "RESOLVED"
	InquiryClosed     InquiryStatus = "CLOSED"
)

// Valid reports whether the status is one of the known values
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryInProgress, InquiryResolved, InquiryClosed:
		return true
	}
	return false
}

// Guest sentinel identity used when an inquiry is submitted anonymously.
const (
	GuestEmail = "guest@customer.invalid"
	GuestName  = "Guest"
)

// CustomerInquiry represents a durable support ticket, optionally traced back
// to the session that spawned it. The session reference is weak: purging the
// session never touches the inquiry.
type CustomerInquiry struct {
	ID        int64           `json:"id"`
	SessionID *int64          `json:"session_id,omitempty"`
	UserID    *string         `json:"user_id,omitempty"`
	UserEmail string          `json:"user_email"`
	UserName  string          `json:"user_name"`
	Subject   string          `json:"subject"`
	Message   string          `json:"message"`
	Category  InquiryCategory `json:"category"`
	Priority  InquiryPriority `json:"priority"`
	Status    InquiryStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InquiryCreate represents inquiry submission data
type InquiryCreate struct {
	SessionID *int64          `json:"session_id,omitempty"`
	UserID    *string         `json:"user_id,omitempty"`
	UserEmail string          `json:"user_email" validate:"omitempty,email,max=255"`
	UserName  string          `json:"user_name" validate:"omitempty,max=255"`
	Subject   string          `json:"subject" validate:"required,max=255"`
	Message   string          `json:"message" validate:"required"`
	Category  InquiryCategory `json:"category" validate:"omitempty,oneof=GENERAL TECHNICAL PAYMENT RETURNS SHIPPING PRODUCT_INFORMATION OTHER"`
	Priority  InquiryPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// InquiryFilter narrows admin inquiry listings
type InquiryFilter struct {
	Status   *InquiryStatus
	Priority *InquiryPriority
	Category *InquiryCategory
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// InquiryRepository defines the interface for inquiry storage
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *CustomerInquiry) error
	Get(ctx context.Context, id int64) (*CustomerInquiry, error)
	List(ctx context.Context, filter InquiryFilter) ([]CustomerInquiry, error)
	UpdateStatus(ctx context.Context, id int64, status InquiryStatus) error
	UpdatePriority(ctx context.Context, id int64, priority InquiryPriority) error
}
