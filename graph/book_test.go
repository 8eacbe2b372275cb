package graph_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/99designs/gqlgen/client"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/senomas/gqlbooks/data"
	"github.com/senomas/gqlbooks/graph"
	"github.com/senomas/gqlbooks/graph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedBooks = []model.Book{
	{
		Title:  "Harry Potter and the Sorcerer's stone",
		Author: "J.K. Rowling",
		Price:  2000,
	},
	{
		Title:  "Jurassic Park",
		Author: "Michael Crichton",
		Price:  3000,
	},
}

func newOptions(src data.Source) graph.Options {
	return graph.Options{
		Source:          src,
		Introspection:   true,
		ComplexityLimit: 100,
		QueryCacheSize:  100,
		LoaderWait:      time.Millisecond,
	}
}

func TestBooks(t *testing.T) {
	src := &countingSource{Source: data.NewStatic(data.Catalog()...)}
	c := client.New(graph.NewHandler(newOptions(src)))

	type respType struct {
		Books []model.Book
	}

	t.Run("find books", func(t *testing.T) {
		var resp respType
		c.MustPost(`{
			books {
				title
				author
				price
			}
		}`, &resp)

		JsonMatch(t, &respType{Books: expectedBooks}, &resp)
	})

	t.Run("find books again", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			var resp respType
			c.MustPost(`{ books { title author price } }`, &resp)
			JsonMatch(t, &respType{Books: expectedBooks}, &resp)
		}
	})

	t.Run("aliases read the source once", func(t *testing.T) {
		before := src.Calls()

		var resp struct {
			First  []model.Book
			Second []model.Book
		}
		c.MustPost(`{
			first: books { title author price }
			second: books { title author price }
		}`, &resp)

		assert.Equal(t, expectedBooks, resp.First)
		assert.Equal(t, expectedBooks, resp.Second)
		assert.Equal(t, before+1, src.Calls())
	})

	t.Run("undefined field", func(t *testing.T) {
		var resp respType
		err := c.Post(`{ books { title isbn } }`, &resp)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot query field")
		assert.Contains(t, err.Error(), "isbn")
		assert.Empty(t, resp.Books)
	})

	t.Run("introspect book", func(t *testing.T) {
		type typeRef struct {
			Name *string
			Kind string
		}
		var resp struct {
			Type struct {
				Name   string
				Kind   string
				Fields []struct {
					Name string
					Type typeRef
				}
			} `json:"__type"`
		}
		c.MustPost(`{
			__type(name: "Book") {
				name
				kind
				fields {
					name
					type { name kind }
				}
			}
		}`, &resp)

		str, integer := "String", "Int"
		assert.Equal(t, "Book", resp.Type.Name)
		assert.Equal(t, "OBJECT", resp.Type.Kind)
		require.Len(t, resp.Type.Fields, 3)
		assert.Equal(t, "title", resp.Type.Fields[0].Name)
		assert.Equal(t, typeRef{Name: &str, Kind: "SCALAR"}, resp.Type.Fields[0].Type)
		assert.Equal(t, "author", resp.Type.Fields[1].Name)
		assert.Equal(t, typeRef{Name: &str, Kind: "SCALAR"}, resp.Type.Fields[1].Type)
		assert.Equal(t, "price", resp.Type.Fields[2].Name)
		assert.Equal(t, typeRef{Name: &integer, Kind: "SCALAR"}, resp.Type.Fields[2].Type)
	})

	t.Run("introspect query", func(t *testing.T) {
		var resp struct {
			Schema struct {
				QueryType struct {
					Name   string
					Fields []struct {
						Name string
						Type struct {
							Kind   string
							OfType struct {
								Name string
								Kind string
							}
						}
					}
				}
				MutationType *struct{ Name string }
			} `json:"__schema"`
		}
		c.MustPost(`{
			__schema {
				queryType {
					name
					fields {
						name
						type { kind ofType { name kind } }
					}
				}
				mutationType { name }
			}
		}`, &resp)

		assert.Equal(t, "Query", resp.Schema.QueryType.Name)
		require.Len(t, resp.Schema.QueryType.Fields, 1)
		books := resp.Schema.QueryType.Fields[0]
		assert.Equal(t, "books", books.Name)
		assert.Equal(t, "LIST", books.Type.Kind)
		assert.Equal(t, "Book", books.Type.OfType.Name)
		assert.Equal(t, "OBJECT", books.Type.OfType.Kind)
		assert.Nil(t, resp.Schema.MutationType)
	})

	t.Run("get", func(t *testing.T) {
		h := graph.NewHandler(newOptions(src))
		r := httptest.NewRequest(http.MethodGet, "/?"+url.Values{"query": {"{ books { title } }"}}.Encode(), nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"books":[{"title":"Harry Potter and the Sorcerer's stone"},{"title":"Jurassic Park"}]}}`, w.Body.String())
	})
}

func TestIntrospectionDisabled(t *testing.T) {
	opts := newOptions(data.NewStatic(data.Catalog()...))
	opts.Introspection = false
	c := client.New(graph.NewHandler(opts))

	var resp map[string]interface{}
	err := c.Post(`{ __schema { queryType { name } } }`, &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introspection disabled")

	var books struct {
		Books []model.Book
	}
	c.MustPost(`{ books { title author price } }`, &books)
	assert.Equal(t, expectedBooks, books.Books)
}

func TestSourceError(t *testing.T) {
	c := client.New(graph.NewHandler(newOptions(&failingSource{err: errors.New("books table is unavailable")})))

	var resp struct {
		Books []model.Book
	}
	err := c.Post(`{ books { title } }`, &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "books table is unavailable")
	assert.Nil(t, resp.Books)
}

func TestResolverWithoutDataSource(t *testing.T) {
	r := &graph.Resolver{Source: data.NewStatic(data.Catalog()...)}

	books, err := r.Query().Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, expectedBooks[0], *books[0])
	assert.Equal(t, expectedBooks[1], *books[1])
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := graph.NewMetrics(reg)

	opts := newOptions(data.NewStatic(data.Catalog()...))
	opts.Metrics = metrics
	c := client.New(graph.NewHandler(opts))

	var resp map[string]interface{}
	c.MustPost(`{ books { title } }`, &resp)
	c.MustPost(`query AllBooks { books { title } }`, &resp)
	c.MustPost(`query AllBooks { books { price } }`, &resp)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Operations.WithLabelValues("anonymous", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Operations.WithLabelValues("AllBooks", "ok")))

	failing := newOptions(&failingSource{err: errors.New("down")})
	failing.Metrics = metrics
	fc := client.New(graph.NewHandler(failing))
	assert.Error(t, fc.Post(`{ books { title } }`, &resp))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Operations.WithLabelValues("anonymous", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FieldErrors.WithLabelValues("Query.books")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))

	t.Run("rejected documents", func(t *testing.T) {
		assert.Error(t, c.Post(`{ books { isbn } }`, &resp))
		assert.Error(t, c.Post(`{ books { title `, &resp))

		assert.Equal(t, float64(3), testutil.ToFloat64(metrics.Operations.WithLabelValues("anonymous", "error")))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Operations.WithLabelValues("anonymous", "ok")))
		assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))
	})
}
