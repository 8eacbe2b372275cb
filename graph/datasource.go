package graph

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader"
	"github.com/pkg/errors"
	"github.com/senomas/gqlbooks/data"
	"github.com/senomas/gqlbooks/graph/model"
)

type ContextID string

const Context_DataSource = ContextID("DataSource")

const booksKey = dataloader.StringKey("books")

// DataSource is created per request. Every books selection of the request
// goes through BatchLoader, so aliased selections share one read of Source
// and the result is reused until the request ends.
type DataSource struct {
	Source      data.Source
	BatchLoader *dataloader.Loader
}

func NewDataSource(src data.Source, wait time.Duration) *DataSource {
	d := DataSource{Source: src}
	d.BatchLoader = dataloader.NewBatchedLoader(d.batchLoader, dataloader.WithWait(wait))
	return &d
}

// For returns the DataSource of the request, or nil.
func For(ctx context.Context) *DataSource {
	ds, _ := ctx.Value(Context_DataSource).(*DataSource)
	return ds
}

// WithDataSource attaches a fresh DataSource over src to every request.
func WithDataSource(src data.Source, wait time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), Context_DataSource, NewDataSource(src, wait))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (ds *DataSource) Books(ctx context.Context) ([]*model.Book, error) {
	res, err := ds.BatchLoader.Load(ctx, booksKey)()
	if err != nil {
		return nil, err
	}
	books, ok := res.([]*model.Book)
	if !ok {
		return nil, errors.Errorf("unexpected books result %T", res)
	}
	return books, nil
}

func (ds *DataSource) batchLoader(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
	books, err := ds.Source.Books(ctx)
	results := make([]*dataloader.Result, len(keys))
	for i := range keys {
		results[i] = &dataloader.Result{Data: books, Error: err}
	}
	return results
}
