package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/willemschots/signups/internal/errorz"
	"github.com/willemschots/signups/internal/observability"
	"github.com/willemschots/signups/internal/users"
)

// ViewRenderer renders named views with the given data.
type ViewRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// UserService signs up and lists users.
type UserService interface {
	Subscribe(ctx context.Context, c users.Credentials) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

// ServerDeps are the dependencies for the server.
type ServerDeps struct {
	Logger       *slog.Logger
	ViewRenderer ViewRenderer
	UserService  UserService
	// Metrics is optional, when nil no metrics are recorded.
	Metrics *observability.Metrics
}

// ServerConfig is the configuration for the server.
type ServerConfig struct {
	// SSLRedirect redirects plain HTTP requests to HTTPS.
	SSLRedirect bool
}

// Server is the HTTP handler of the application. It is safe for concurrent use.
type Server struct {
	deps     *ServerDeps
	router   chi.Router
	decoder  *schema.Decoder
	validate *validator.Validate
}

func NewServer(deps *ServerDeps, cfg ServerConfig) *Server {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	validate := validator.New()

	s := &Server{
		deps:     deps,
		router:   chi.NewRouter(),
		decoder:  decoder,
		validate: validate,
	}

	for _, mw := range s.middlewares(cfg) {
		s.router.Use(mw)
	}

	// Most endpoints below are created using the map functions.
	// These return handlers that map between HTTP requests, target functions and HTTP responses.
	// The request mapping is shared, every endpoint writes its own response.

	s.router.Method(http.MethodGet, "/", s.pageHandler("home", homePage()))
	s.router.Method(http.MethodGet, "/next", s.pageHandler("next", nextPage()))

	{
		h := mapBoth(s, deps.UserService.Subscribe, func(r result[users.Credentials, users.User]) error {
			r.s.deps.Metrics.UserInserted()
			return r.s.writeView(r.w, "home", subscribedPage(r.out))
		})

		s.router.Method(http.MethodPost, "/subscribe", h)
	}

	{
		h := mapResponse(s, deps.UserService.List, func(r result[struct{}, []users.User]) error {
			return r.s.writeView(r.w, "table", usersPage(r.out))
		})

		s.router.Method(http.MethodGet, "/users", h)
	}

	s.router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) pageHandler(name string, p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.writeView(w, name, p)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	}
}

// writeView renders the view to a buffer first, nothing is written to w
// when rendering fails.
func (s *Server) writeView(w http.ResponseWriter, name string, p page) error {
	var buf bytes.Buffer
	err := s.deps.ViewRenderer.Render(&buf, name, p)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = buf.WriteTo(w)
	if err != nil {
		// The client likely went away, we can't report this to them anymore.
		s.deps.Logger.Warn("failed to write response", "view", name, "error", err)
	}
	return nil
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFromCtx(r.Context(), s.deps.Logger)

	var invalidInput errorz.InvalidInput
	if errors.As(err, &invalidInput) {
		logger.Info("invalid input", "url", r.URL.String(), "keys", invalidInput.Keys(), "error", err)
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errors.Is(err, errorz.ErrUnavailable) {
		logger.Error("service unavailable", "url", r.URL.String(), "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	logger.Error("internal server error", "url", r.URL.String(), "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
