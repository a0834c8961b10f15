package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shoplane/support-chat/internal/domain"
)

// faqSeparator joins question and answer in a synthesized assistant reply
const faqSeparator = "\n\n"

// SuggestedPageCache caches the ranked suggested-FAQ page. Implemented by the
// redis repository; nil disables caching.
type SuggestedPageCache interface {
	Get(ctx context.Context) ([]domain.FAQEntry, error)
	Set(ctx context.Context, entries []domain.FAQEntry) error
	Invalidate(ctx context.Context) error
}

// SuggestionService surfaces FAQ entries as quick replies. There is no
// natural-language inference anywhere in here: ranking is by view count with
// an id tie-break, and search is plain substring matching.
type SuggestionService struct {
	faqRepo  domain.FAQRepository
	cache    SuggestedPageCache
	chat     *ChatService
	pageSize int
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(faqRepo domain.FAQRepository, cache SuggestedPageCache, chat *ChatService, pageSize int) *SuggestionService {
	return &SuggestionService{
		faqRepo:  faqRepo,
		cache:    cache,
		chat:     chat,
		pageSize: pageSize,
	}
}

// SuggestOnOpen returns the fixed-size "most commonly useful" page, ranked by
// view count descending then id ascending.
func (s *SuggestionService) SuggestOnOpen(ctx context.Context) ([]domain.FAQEntry, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	entries, err := retryList(ctx, func() ([]domain.FAQEntry, error) {
		return s.faqRepo.TopByViews(ctx, s.pageSize)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entries); err != nil {
			log.Warn().Err(err).Msg("Failed to cache suggested FAQ page")
		}
	}
	return entries, nil
}

// Search matches a free-text query against FAQ questions and tags
func (s *SuggestionService) Search(ctx context.Context, query string) ([]domain.FAQEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query: %w", domain.ErrInvalidArgument)
	}
	return retryList(ctx, func() ([]domain.FAQEntry, error) {
		return s.faqRepo.Search(ctx, query, s.pageSize)
	})
}

// RecordView increments the entry's view counter
func (s *SuggestionService) RecordView(ctx context.Context, faqID int64) error {
	if err := s.faqRepo.IncrementView(ctx, faqID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate suggested FAQ page")
		}
	}
	return nil
}

// HandleSelection records that the visitor picked an FAQ entry and appends
// the assistant reply carrying the entry's question and answer. The view is
// recorded before the message is appended, so the counter only ever reflects
// genuinely surfaced answers.
func (s *SuggestionService) HandleSelection(ctx context.Context, token string, faqID int64) (*domain.ChatMessage, error) {
	entry, err := s.faqRepo.Get(ctx, faqID)
	if err != nil {
		return nil, err
	}

	if err := s.RecordView(ctx, faqID); err != nil {
		return nil, err
	}

	content := entry.Question + faqSeparator + entry.Answer
	result, err := s.chat.Post(ctx, token, domain.AuthorAssistant, content)
	if err != nil {
		return nil, err
	}
	return result.Message, nil
}
