package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shoplane/support-chat/internal/api/handler"
	customMiddleware "github.com/shoplane/support-chat/internal/api/middleware"
	"github.com/shoplane/support-chat/internal/config"
	"github.com/shoplane/support-chat/internal/repository/postgres"
	"github.com/shoplane/support-chat/internal/repository/redis"
	"github.com/shoplane/support-chat/internal/security"
	"github.com/shoplane/support-chat/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db.Pool)
	messageRepo := postgres.NewMessageRepository(db.Pool)
	faqRepo := postgres.NewFAQRepository(db.Pool)
	inquiryRepo := postgres.NewInquiryRepository(db.Pool)
	agentRepo := postgres.NewAgentRepository(db.Pool)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Chat.RateLimit.RequestsPerMinute,
		cfg.Chat.RateLimit.Burst,
	)
	faqCache := redis.NewSuggestedFAQCache(redisClient)

	// Initialize services
	chatService := service.NewChatService(
		sessionRepo,
		messageRepo,
		cfg.Chat.AutoAckEnabled,
		cfg.Chat.AutoAckText,
		cfg.Chat.MaxMessageLength,
	)
	suggestionService := service.NewSuggestionService(
		faqRepo,
		faqCache,
		chatService,
		cfg.Chat.SuggestedPageSize,
	)
	inquiryService := service.NewInquiryService(inquiryRepo)
	adminService := service.NewAdminService(sessionRepo, messageRepo)
	authService := service.NewAuthService(agentRepo, jwtManager)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService, suggestionService)
	faqHandler := handler.NewFAQHandler(suggestionService)
	inquiryHandler := handler.NewInquiryHandler(inquiryService)
	adminHandler := handler.NewAdminHandler(adminService, inquiryService)
	authHandler := handler.NewAuthHandler(authService)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Visitor-facing chat routes
		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)

			r.Route("/chat", func(r chi.Router) {
				r.Post("/session", chatHandler.Open)

				r.Route("/session/{token}", func(r chi.Router) {
					r.Get("/", chatHandler.Get)
					r.Post("/message", chatHandler.PostMessage)
					r.Get("/messages", chatHandler.ListMessages)
					r.Post("/close", chatHandler.Close)
					r.Post("/faq/{faqID}", chatHandler.SelectFAQ)
				})

				r.Get("/faq/suggested", faqHandler.Suggested)
				r.Get("/faq/search", faqHandler.Search)
				r.Post("/faq/{faqID}/view", faqHandler.RecordView)

				r.Post("/inquiry", inquiryHandler.Create)
			})
		})

		// Staff routes
		r.Route("/admin", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)

				r.Route("/chat", func(r chi.Router) {
					r.Get("/sessions", adminHandler.ListSessions)
					r.Get("/sessions/{sessionID}", adminHandler.GetSessionDetail)

					r.Get("/inquiries", adminHandler.ListInquiries)
					r.Get("/inquiries/{inquiryID}", adminHandler.GetInquiry)
					r.Patch("/inquiries/{inquiryID}/status", adminHandler.UpdateInquiryStatus)
					r.Patch("/inquiries/{inquiryID}/priority", adminHandler.UpdateInquiryPriority)
				})
			})
		})
	})

	return r
}
