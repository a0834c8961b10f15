package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shoplane/support-chat/internal/api/response"
	"github.com/shoplane/support-chat/internal/domain"
	"github.com/shoplane/support-chat/internal/service"
)

// AdminHandler exposes the staff triage surface
type AdminHandler struct {
	admin     *service.AdminService
	inquiries *service.InquiryService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *service.AdminService, inquiries *service.InquiryService) *AdminHandler {
	return &AdminHandler{admin: admin, inquiries: inquiries}
}

// ListSessions returns a filtered, paged session view
func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	filter := domain.SessionFilter{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.SessionStatus(s)
		if status != domain.SessionOpen && status != domain.SessionClosed {
			response.BadRequest(w, "invalid status filter")
			return
		}
		filter.Status = &status
	}

	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		response.BadRequest(w, "invalid from timestamp")
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		response.BadRequest(w, "invalid to timestamp")
		return
	}

	sessions, err := h.admin.ListSessions(r.Context(), filter)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, sessions)
}

// GetSessionDetail returns a session with its full ordered message log
func (h *AdminHandler) GetSessionDetail(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := int64Param(r, "sessionID")
	if !ok {
		response.BadRequest(w, "invalid session id")
		return
	}

	detail, err := h.admin.GetSessionDetail(r.Context(), sessionID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, detail)
}

// ListInquiries returns a filtered, paged inquiry view
func (h *AdminHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	filter := domain.InquiryFilter{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.InquiryStatus(s)
		if !status.Valid() {
			response.BadRequest(w, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if s := r.URL.Query().Get("priority"); s != "" {
		priority := domain.InquiryPriority(s)
		if !priority.Valid() {
			response.BadRequest(w, "invalid priority filter")
			return
		}
		filter.Priority = &priority
	}
	if s := r.URL.Query().Get("category"); s != "" {
		category := domain.InquiryCategory(s)
		if !category.Valid() {
			response.BadRequest(w, "invalid category filter")
			return
		}
		filter.Category = &category
	}

	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		response.BadRequest(w, "invalid from timestamp")
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		response.BadRequest(w, "invalid to timestamp")
		return
	}

	inquiries, err := h.inquiries.List(r.Context(), filter)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, inquiries)
}

// GetInquiry returns one inquiry with its session back-reference
func (h *AdminHandler) GetInquiry(w http.ResponseWriter, r *http.Request) {
	inquiryID, ok := int64Param(r, "inquiryID")
	if !ok {
		response.BadRequest(w, "invalid inquiry id")
		return
	}

	inquiry, err := h.inquiries.Get(r.Context(), inquiryID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, inquiry)
}

// UpdateInquiryStatus mutates the triage status
func (h *AdminHandler) UpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	inquiryID, ok := int64Param(r, "inquiryID")
	if !ok {
		response.BadRequest(w, "invalid inquiry id")
		return
	}

	var req struct {
		Status domain.InquiryStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.inquiries.UpdateStatus(r.Context(), inquiryID, req.Status); err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, map[string]any{"id": inquiryID, "status": req.Status})
}

// UpdateInquiryPriority mutates the triage priority
func (h *AdminHandler) UpdateInquiryPriority(w http.ResponseWriter, r *http.Request) {
	inquiryID, ok := int64Param(r, "inquiryID")
	if !ok {
		response.BadRequest(w, "invalid inquiry id")
		return
	}

	var req struct {
		Priority domain.InquiryPriority `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.inquiries.UpdatePriority(r.Context(), inquiryID, req.Priority); err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, map[string]any{"id": inquiryID, "priority": req.Priority})
}
