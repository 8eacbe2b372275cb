package graph

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/rs/zerolog"
	"github.com/senomas/gqlbooks/data"
	"github.com/senomas/gqlbooks/graph/exec"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const persistedQueryCacheSize = 100

type Options struct {
	Source          data.Source
	Metrics         *Metrics
	Introspection   bool
	ComplexityLimit int
	QueryCacheSize  int
	LoaderWait      time.Duration
}

// NewServer builds the gqlgen server answering the book schema.
func NewServer(opts Options) *handler.Server {
	srv := handler.New(exec.NewExecutableSchema(exec.Config{Resolvers: &Resolver{Source: opts.Source}}))

	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	if opts.QueryCacheSize > 0 {
		srv.SetQueryCache(lru.New(opts.QueryCacheSize))
	}
	if opts.Introspection {
		srv.Use(extension.Introspection{})
	}
	srv.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New(persistedQueryCacheSize),
	})
	if opts.ComplexityLimit > 0 {
		srv.Use(extension.FixedComplexityLimit(opts.ComplexityLimit))
	}
	if opts.Metrics != nil {
		srv.Use(opts.Metrics)
	}

	srv.SetErrorPresenter(func(ctx context.Context, e error) *gqlerror.Error {
		err := graphql.DefaultErrorPresenter(ctx, e)
		zerolog.Ctx(ctx).Debug().Str("path", err.Path.String()).Msg(err.Message)
		return err
	})
	srv.SetRecoverFunc(func(ctx context.Context, p interface{}) error {
		zerolog.Ctx(ctx).Error().Interface("panic", p).Bytes("stack", debug.Stack()).Msg("resolver panic")
		return gqlerror.Errorf("internal system error")
	})
	return srv
}

// NewHandler returns NewServer behind the per-request DataSource.
func NewHandler(opts Options) http.Handler {
	return WithDataSource(opts.Source, opts.LoaderWait, NewServer(opts))
}
