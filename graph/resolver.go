package graph

import "github.com/senomas/gqlbooks/data"

// Resolver is the root of the query resolvers. Source answers requests
// that carry no per-request DataSource.
type Resolver struct {
	Source data.Source
}
