package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shoplane/support-chat/internal/domain"
)

// InquiryService converts a support need into a durable ticket and backs the
// admin triage mutations.
type InquiryService struct {
	inquiryRepo domain.InquiryRepository
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(inquiryRepo domain.InquiryRepository) *InquiryService {
	return &InquiryService{inquiryRepo: inquiryRepo}
}

// Create validates and stores a new inquiry. Category defaults to GENERAL,
// priority to LOW, status to PENDING; anonymous submissions get the guest
// sentinel identity. The originating session does not need to be open, or to
// exist at all.
func (s *InquiryService) Create(ctx context.Context, input domain.InquiryCreate) (*domain.CustomerInquiry, error) {
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if subject == "" {
		return nil, fmt.Errorf("empty inquiry subject: %w", domain.ErrInvalidArgument)
	}
	if message == "" {
		return nil, fmt.Errorf("empty inquiry message: %w", domain.ErrInvalidArgument)
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !category.Valid() {
		return nil, fmt.Errorf("unknown inquiry category %q: %w", category, domain.ErrInvalidArgument)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("unknown inquiry priority %q: %w", priority, domain.ErrInvalidArgument)
	}

	email := strings.TrimSpace(input.UserEmail)
	name := strings.TrimSpace(input.UserName)
	if email == "" {
		email = domain.GuestEmail
	}
	if name == "" {
		name = domain.GuestName
	}

	now := time.Now()
	inquiry := &domain.CustomerInquiry{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		UserEmail: email,
		UserName:  name,
		Subject:   subject,
		Message:   message,
		Category:  category,
		Priority:  priority,
		Status:    domain.InquiryPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return inquiry, nil
}

// Get returns an inquiry by id. The session back-reference is preserved even
// after the originating session has been closed or purged.
func (s *InquiryService) Get(ctx context.Context, id int64) (*domain.CustomerInquiry, error) {
	return s.inquiryRepo.Get(ctx, id)
}

// List returns a filtered, paged inquiry view for staff triage
func (s *InquiryService) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.CustomerInquiry, error) {
	normalizePaging(&filter.Limit, &filter.Offset)
	return retryList(ctx, func() ([]domain.CustomerInquiry, error) {
		return s.inquiryRepo.List(ctx, filter)
	})
}

// UpdateStatus is an admin-only mutation
func (s *InquiryService) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown inquiry status %q: %w", status, domain.ErrInvalidArgument)
	}
	return s.inquiryRepo.UpdateStatus(ctx, id, status)
}

// UpdatePriority is an admin-only mutation
func (s *InquiryService) UpdatePriority(ctx context.Context, id int64, priority domain.InquiryPriority) error {
	if !priority.Valid() {
		return fmt.Errorf("unknown inquiry priority %q: %w", priority, domain.ErrInvalidArgument)
	}
	return s.inquiryRepo.UpdatePriority(ctx, id, priority)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePaging(limit, offset *int) {
	if *limit <= 0 {
		*limit = defaultPageSize
	}
	if *limit > maxPageSize {
		*limit = maxPageSize
	}
	if *offset < 0 {
		*offset = 0
	}
}
