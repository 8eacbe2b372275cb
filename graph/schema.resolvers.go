package graph

import (
	"context"

	"github.com/senomas/gqlbooks/graph/exec"
	"github.com/senomas/gqlbooks/graph/model"
)

func (r *queryResolver) Books(ctx context.Context) ([]*model.Book, error) {
	if ds := For(ctx); ds != nil {
		return ds.Books(ctx)
	}
	return r.Source.Books(ctx)
}

// Query returns exec.QueryResolver implementation.
func (r *Resolver) Query() exec.QueryResolver { return &queryResolver{r} }

type queryResolver struct{ *Resolver }
