package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Umang00/companion-backend/internal/api/handlers"
	"github.com/Umang00/companion-backend/internal/api/middleware"
	"github.com/Umang00/companion-backend/internal/auth"
	"github.com/Umang00/companion-backend/internal/cache"
	"github.com/Umang00/companion-backend/internal/changedetect"
	"github.com/Umang00/companion-backend/internal/chat"
	"github.com/Umang00/companion-backend/internal/config"
	"github.com/Umang00/companion-backend/internal/embedding"
	"github.com/Umang00/companion-backend/internal/indexer"
	"github.com/Umang00/companion-backend/internal/llm"
	"github.com/Umang00/companion-backend/internal/loader"
	"github.com/Umang00/companion-backend/internal/metadata"
	"github.com/Umang00/companion-backend/internal/queue"
	"github.com/Umang00/companion-backend/internal/retrieval"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
	llmGW llm.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux
	logger := slog.Default()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	vs := vectorstore.NewPgVectorStore(rt.db)
	meta := metadata.NewStore(rt.db)
	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.LLM.EmbeddingModel)
	engine := retrieval.NewEngine(vs, embedSvc, logger)
	appCache := cache.NewCache(rt.redis)
	queueClient := queue.NewClient(rt.cfg.Redis)

	followups := chat.NewFollowUpGenerator(rt.llmGW, rt.cfg.LLM.FollowUpModel, logger)
	chatSvc := chat.NewService(engine, rt.llmGW, followups, appCache, rt.cfg.LLM.ChatModel, logger)
	compressor := chat.NewHistoryCompressor(rt.llmGW, rt.cfg.LLM.FollowUpModel)

	pdfs := loader.NewPDFLoader(rt.cfg.Documents.Dir)
	repos := loader.NewGitHubLoader(rt.cfg.GitHub.Token, rt.cfg.GitHub.User)
	detector := changedetect.New(meta, rt.cfg.Documents.Dir)
	builder := indexer.NewBuilder(pdfs, repos, detector, embedSvc, vs, meta, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public chat, tightly rate limited per IP
		chatH := handlers.NewChatHandler(chatSvc, compressor)
		r.Group(func(r chi.Router) {
			rl := middleware.NewRateLimiter(1, 10)
			r.Use(rl.Limit)
			r.Post("/chat", chatH.Chat)
		})

		// Admin memory management, JWT only
		memoryH := handlers.NewMemoryHandler(builder, vs, queueClient)
		r.Route("/memory", func(r chi.Router) {
			r.Use(rt.jwt.Authenticate)
			r.Post("/rebuild", memoryH.Rebuild)
			r.Post("/rebuild/async", memoryH.Enqueue)
			r.Get("/stats", memoryH.Stats)
		})
	})

	return r
}
