// Package server is the HTTP listener in front of the GraphQL handler.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
	idleTimeout            = 60 * time.Second
)

type Config struct {
	// Port to bind on all interfaces; 0 picks a free port.
	Port int
	// AllowedOrigin is the single origin allowed cross-origin access; empty
	// emits no CORS headers.
	AllowedOrigin string
	// Path of the GraphQL endpoint, used in the ready message.
	Path            string
	ShutdownTimeout time.Duration
	// Out receives the ready message. Defaults to os.Stdout.
	Out io.Writer
}

type Server struct {
	config  Config
	handler http.Handler
	log     zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
}

func New(config Config, handler http.Handler, log zerolog.Logger) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &Server{
		config:  config,
		handler: Access(log, CORS(config.AllowedOrigin, handler)),
		log:     log,
	}
}

// Listen binds the port. It fails when the port is already bound.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	var lc net.ListenConfig
	l, err := lc.Listen(context.Background(), "tcp", net.JoinHostPort("", strconv.Itoa(s.config.Port)))
	if err != nil {
		return errors.Wrapf(err, "listen on port %d", s.config.Port)
	}
	s.listener = l
	s.http = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return nil
}

// Port returns the bound port, or 0 before Listen.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// URL is the GraphQL endpoint as announced on startup.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d%s", s.Port(), s.config.Path)
}

// Run serves until ctx is done, then shuts down within ShutdownTimeout.
// It binds first when Listen has not been called.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	t, _ := tomb.WithContext(ctx)
	t.Go(func() error {
		if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	t.Go(func() error {
		<-t.Dying()
		s.log.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(s.http.Shutdown(shutdownCtx), "shutdown")
	})

	s.log.Info().Int("port", s.Port()).Str("url", s.URL()).Msg("server ready")
	fmt.Fprintf(s.config.Out, "🚀 Server ready at %s\n", s.URL())

	if err := t.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
