package handler

import (
	"net/http"

	"github.com/shoplane/support-chat/internal/api/response"
	"github.com/shoplane/support-chat/internal/service"
)

// FAQHandler exposes the suggestion endpoints
type FAQHandler struct {
	suggest *service.SuggestionService
}

// NewFAQHandler creates a new FAQ handler
func NewFAQHandler(suggest *service.SuggestionService) *FAQHandler {
	return &FAQHandler{suggest: suggest}
}

// Suggested returns the ranked quick-reply page
func (h *FAQHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	entries, err := h.suggest.SuggestOnOpen(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.OK(w, entries)
}

// Search matches a free-text query against FAQ questions and tags
func (h *FAQHandler) Search(w http.ResponseWriter, r *http.Request) {
	entries, err := h.suggest.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.OK(w, entries)
}

// RecordView acknowledges that an FAQ answer was surfaced to a visitor
func (h *FAQHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	faqID, ok := int64Param(r, "faqID")
	if !ok {
		response.BadRequest(w, "invalid FAQ id")
		return
	}

	if err := h.suggest.RecordView(r.Context(), faqID); err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, map[string]bool{"recorded": true})
}
