package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shoplane/support-chat/internal/api/response"
	"github.com/shoplane/support-chat/internal/domain"
	"github.com/shoplane/support-chat/internal/service"
)

// InquiryHandler exposes the public escalation endpoint
type InquiryHandler struct {
	inquiries *service.InquiryService
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(inquiries *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiries: inquiries}
}

// Create escalates a support need into a durable inquiry ticket
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.InquiryCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !checkStruct(w, input) {
		return
	}

	inquiry, err := h.inquiries.Create(r.Context(), input)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.Created(w, inquiry)
}
