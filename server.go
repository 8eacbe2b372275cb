package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/senomas/gqlbooks/config"
	"github.com/senomas/gqlbooks/data"
	"github.com/senomas/gqlbooks/graph"
	"github.com/senomas/gqlbooks/server"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	log := newLogger(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}

// newLogger logs to stderr; stdout only carries the ready line.
func newLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
}

func run(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg.LogLevel)

	src, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(server.Config{
		Port:            cfg.Port,
		AllowedOrigin:   cfg.AllowedOrigin,
		Path:            cfg.Path,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Out:             stdout,
	}, routes(cfg, src, reg), log)
	return srv.Run(ctx)
}

// newSource returns the postgres source when a DSN is configured, the
// built-in catalog otherwise.
func newSource(cfg *config.Config, log zerolog.Logger) (data.Source, error) {
	if cfg.DatabaseDSN == "" {
		src := data.NewStatic(data.Catalog()...)
		log.Info().Int("books", src.Len()).Msg("serving built-in catalog")
		return src, nil
	}

	db, err := data.Open(cfg.DatabaseDSN, log, cfg.LogSQL)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := data.Setup(db, data.Catalog()); err != nil {
			return nil, err
		}
	}
	log.Info().Bool("migrate", cfg.Migrate).Msg("serving books from postgres")
	return data.NewGorm(db), nil
}

func routes(cfg *config.Config, src data.Source, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, graph.NewHandler(graph.Options{
		Source:          src,
		Metrics:         graph.NewMetrics(reg),
		Introspection:   cfg.Introspection,
		ComplexityLimit: cfg.ComplexityLimit,
		QueryCacheSize:  cfg.QueryCacheSize,
		LoaderWait:      cfg.LoaderWait,
	}))
	if cfg.Playground {
		mux.Handle("/{$}", playground.Handler("GraphQL playground", cfg.Path))
	}
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}
