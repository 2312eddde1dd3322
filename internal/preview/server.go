package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/metrics"
)

// DefaultPort is the port used when Options.Port is zero.
const DefaultPort = 8000

const (
	browserDelay    = 500 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// ErrPortInUse is wrapped by the error returned when the listen address is taken.
var ErrPortInUse = stderrors.New("port already in use")

// Options configures a preview Server.
type Options struct {
	Dir         string
	Host        string // empty listens on all interfaces
	Port        int
	OpenBrowser bool
	// Registry, when set, is exposed on /metrics.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server serves a built site over HTTP.
type Server struct {
	dir      string
	opts     Options
	logger   *slog.Logger
	listener net.Listener
	openURL  func(url string) error
}

// New validates the options. The directory must exist.
func New(opts Options) (*Server, error) {
	abs, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve directory").
			WithContext("path", opts.Dir).Build()
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return nil, errors.NewError(errors.CategoryNotFound, fmt.Sprintf("directory %s does not exist", abs)).
			WithContext("path", abs).UserAction().Build()
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dir: abs, opts: opts, logger: logger, openURL: openBrowser}, nil
}

// Dir returns the absolute directory being served.
func (s *Server) Dir() string {
	return s.dir
}

// Handler returns the HTTP handler for the site and, when configured, /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/", http.FileServer(http.Dir(s.dir)))
	return mux
}

// Listen binds the listen address. A port that is already taken yields an
// error wrapping ErrPortInUse.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if stderrors.Is(err, syscall.EADDRINUSE) {
			return errors.NetworkError(fmt.Sprintf("port %d is already in use; try a different port", s.opts.Port)).
				WithCause(fmt.Errorf("%w: %w", ErrPortInUse, err)).
				WithContext("addr", addr).
				UserAction().
				Build()
		}
		return errors.WrapError(err, errors.CategoryNetwork, "failed to start server").
			WithContext("addr", addr).Build()
	}
	s.listener = ln
	return nil
}

// URL is the local address of the server. It reflects the bound port after Listen.
func (s *Server) URL() string {
	port := s.opts.Port
	if s.listener != nil {
		if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
			port = tcp.Port
		}
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// Serve listens if needed and serves until ctx is canceled, then shuts the
// server down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := s.URL()
	s.logger.Info("Preview server started", logfields.URL(url), logfields.Path(s.dir))

	if s.opts.OpenBrowser {
		timer := time.AfterFunc(browserDelay, func() {
			if err := s.openURL(url); err != nil {
				s.logger.Warn("Failed to open browser", logfields.URL(url), logfields.Error(err))
			}
		})
		defer timer.Stop()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(s.listener)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapError(err, errors.CategoryNetwork, "preview server failed").Build()
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Preview server shutdown error", logfields.Error(err))
	}
	<-serveErr
	return nil
}
