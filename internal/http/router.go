package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsc11539/iaas-webhost/internal/config"
	"github.com/tsc11539/iaas-webhost/internal/store"
)

// Store is the data access the handlers need.
type Store interface {
	Now(ctx context.Context) (time.Time, error)
	Ping(ctx context.Context) error
	ListPosts(ctx context.Context) ([]store.Post, error)
}

// Deps are the dependencies shared by all handlers. They are read-only
// after NewRouter returns.
type Deps struct {
	Config *config.Config
	Store  Store
	Logger *slog.Logger
}

type handlers struct {
	cfg   *config.Config
	store Store
	log   *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(deps Deps) http.Handler {
	h := &handlers{cfg: deps.Config, store: deps.Store, log: deps.Logger}
	if h.log == nil {
		h.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(h.log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	// Health check endpoints
	r.Get("/healthz", healthzHandler)
	r.Get("/readyz", h.readyzHandler)

	// Pages
	r.Get("/", h.statusHandler)
	r.Get("/posts", h.postsHandler)

	// Paths of the old PHP site
	r.Get("/index.php", redirectHandler("/"))
	r.Get("/posts.php", redirectHandler("/posts"))

	return r
}
