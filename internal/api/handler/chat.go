package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shoplane/support-chat/internal/api/response"
	"github.com/shoplane/support-chat/internal/domain"
	"github.com/shoplane/support-chat/internal/service"
)

// ChatHandler exposes the visitor-facing session and message endpoints
type ChatHandler struct {
	chat    *service.ChatService
	suggest *service.SuggestionService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService, suggest *service.SuggestionService) *ChatHandler {
	return &ChatHandler{chat: chat, suggest: suggest}
}

// Open creates a new session. The body is optional; a signed-in storefront
// sends the identity it already resolved.
func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity *domain.Identity `json:"identity"`
	}
	// The body is optional; a bare POST opens a guest session
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Identity != nil && !checkStruct(w, *req.Identity) {
		return
	}

	session, err := h.chat.Open(r.Context(), req.Identity)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	// A failed suggestion lookup must not fail the open
	suggested, err := h.suggest.SuggestOnOpen(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load suggested FAQ entries")
		suggested = nil
	}

	response.Created(w, map[string]any{
		"session":   session,
		"messages":  []domain.ChatMessage{},
		"suggested": suggested,
	})
}

// Get resumes a session: the session record plus its full ordered log
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	session, err := h.chat.GetByToken(r.Context(), token)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	messages, err := h.chat.Messages(r.Context(), token, 0)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"session":  session,
		"messages": messages,
	})
}

// PostMessage appends a message to the session log
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req struct {
		Content    string            `json:"content"`
		AuthorType domain.AuthorType `json:"author_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	author := req.AuthorType
	if author == "" {
		author = domain.AuthorVisitor
	}
	// Assistant content is synthesized server-side only
	if author == domain.AuthorAssistant {
		response.BadRequest(w, "author_type ASSISTANT is reserved")
		return
	}

	result, err := h.chat.Post(r.Context(), token, author, req.Content)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.Created(w, result)
}

// ListMessages returns messages with seq greater than since_seq, so clients
// poll incrementally from the last sequence number they have seen.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var sinceSeq int64
	if s := r.URL.Query().Get("since_seq"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			response.BadRequest(w, "invalid since_seq")
			return
		}
		sinceSeq = v
	}

	messages, err := h.chat.Messages(r.Context(), token, sinceSeq)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, messages)
}

// Close ends the session. Closing twice is a no-op.
func (h *ChatHandler) Close(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.chat.Close(r.Context(), token); err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": string(domain.SessionClosed)})
}

// SelectFAQ handles a visitor picking a suggested FAQ entry: the view is
// recorded and the assistant reply is appended to the session log.
func (h *ChatHandler) SelectFAQ(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	faqID, ok := int64Param(r, "faqID")
	if !ok {
		response.BadRequest(w, "invalid FAQ id")
		return
	}

	msg, err := h.suggest.HandleSelection(r.Context(), token, faqID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.Created(w, msg)
}
