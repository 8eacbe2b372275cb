// Package exec executes GraphQL operations against the book schema. It
// implements gqlgen's graphql.ExecutableSchema so it can be served by the
// gqlgen handler, its transports and its extensions.
package exec

import (
	"bytes"
	"context"
	_ "embed"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/senomas/gqlbooks/graph/model"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var sourceData string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceData})

type Config struct {
	Resolvers  ResolverRoot
	Complexity ComplexityRoot
}

type ResolverRoot interface {
	Query() QueryResolver
}

type QueryResolver interface {
	Books(ctx context.Context) ([]*model.Book, error)
}

type ComplexityRoot struct {
	Book struct {
		Author func(childComplexity int) int
		Price  func(childComplexity int) int
		Title  func(childComplexity int) int
	}

	Query struct {
		Books func(childComplexity int) int
	}
}

// NewExecutableSchema creates an ExecutableSchema from the ResolverRoot interface.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{
		resolvers:  cfg.Resolvers,
		complexity: cfg.Complexity,
	}
}

type executableSchema struct {
	resolvers  ResolverRoot
	complexity ComplexityRoot
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Complexity(typeName, field string, childComplexity int, rawArgs map[string]interface{}) (int, bool) {
	switch typeName + "." + field {
	case "Book.author":
		if e.complexity.Book.Author == nil {
			break
		}
		return e.complexity.Book.Author(childComplexity), true

	case "Book.price":
		if e.complexity.Book.Price == nil {
			break
		}
		return e.complexity.Book.Price(childComplexity), true

	case "Book.title":
		if e.complexity.Book.Title == nil {
			break
		}
		return e.complexity.Book.Title(childComplexity), true

	case "Query.books":
		if e.complexity.Query.Books == nil {
			break
		}
		return e.complexity.Query.Books(childComplexity), true
	}
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	rc := graphql.GetOperationContext(ctx)
	ec := executionContext{rc, e}
	first := true

	switch rc.Operation.Operation {
	case ast.Query:
		return func(ctx context.Context) *graphql.Response {
			if !first {
				return nil
			}
			first = false
			data := ec._Query(ctx, rc.Operation.SelectionSet)
			var buf bytes.Buffer
			data.MarshalGQL(&buf)

			return &graphql.Response{
				Data: buf.Bytes(),
			}
		}

	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
}

type executionContext struct {
	*graphql.OperationContext
	*executableSchema
}

// resolveField runs fn through the operation's resolver middleware under a
// field context for field. Errors and panics are recorded against the field
// path and reported as ok == false.
func (ec *executionContext) resolveField(ctx context.Context, object string, field graphql.CollectedField, args map[string]interface{}, isMethod bool, fn graphql.Resolver) (_ context.Context, res interface{}, ok bool) {
	fc := &graphql.FieldContext{
		Object:   object,
		Field:    field,
		Args:     args,
		IsMethod: isMethod,
	}
	ctx = graphql.WithFieldContext(ctx, fc)
	defer func() {
		if r := recover(); r != nil {
			graphql.AddError(ctx, ec.Recover(ctx, r))
			res, ok = nil, false
		}
	}()

	res, err := ec.ResolverMiddleware(ctx, fn)
	if err != nil {
		graphql.AddError(ctx, err)
		return ctx, nil, false
	}
	fc.Result = res
	return ctx, res, true
}

// list marshals n items, each under a field context carrying its index.
func list(ctx context.Context, n int, item func(ctx context.Context, i int) graphql.Marshaler) graphql.Marshaler {
	ret := make(graphql.Array, n)
	for i := 0; i < n; i++ {
		idx := i
		ret[i] = item(graphql.WithFieldContext(ctx, &graphql.FieldContext{Index: &idx}), i)
	}
	return ret
}

var queryImplementors = []string{"Query"}

func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, queryImplementors)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Object: "Query",
	})

	out := graphql.NewFieldSet(fields)
	var invalids uint32
	for i, field := range fields {
		field := field
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Query")
		case "books":
			out.Concurrently(i, func() graphql.Marshaler {
				return ec._Query_books(ctx, field)
			})
		case "__type":
			out.Values[i] = ec._Query___type(ctx, field)
		case "__schema":
			out.Values[i] = ec._Query___schema(ctx, field)
			if out.Values[i] == graphql.Null {
				invalids++
			}
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
	}
	out.Dispatch()
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) _Query_books(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, res, ok := ec.resolveField(ctx, "Query", field, nil, true, func(rctx context.Context) (interface{}, error) {
		return ec.resolvers.Query().Books(rctx)
	})
	if !ok || res == nil {
		return graphql.Null
	}
	books := res.([]*model.Book)
	if books == nil {
		return graphql.Null
	}
	return list(ctx, len(books), func(ctx context.Context, i int) graphql.Marshaler {
		if books[i] == nil {
			return graphql.Null
		}
		return ec._Book(ctx, field.Selections, books[i])
	})
}

var bookImplementors = []string{"Book"}

func (ec *executionContext) _Book(ctx context.Context, sel ast.SelectionSet, obj *model.Book) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, bookImplementors)

	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Book")
		case "title":
			out.Values[i] = ec._Book_title(ctx, field, obj)
		case "author":
			out.Values[i] = ec._Book_author(ctx, field, obj)
		case "price":
			out.Values[i] = ec._Book_price(ctx, field, obj)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
	}
	out.Dispatch()
	return out
}

func (ec *executionContext) _Book_title(ctx context.Context, field graphql.CollectedField, obj *model.Book) graphql.Marshaler {
	_, res, ok := ec.resolveField(ctx, "Book", field, nil, false, func(context.Context) (interface{}, error) {
		return obj.Title, nil
	})
	if !ok {
		return graphql.Null
	}
	return graphql.MarshalString(res.(string))
}

func (ec *executionContext) _Book_author(ctx context.Context, field graphql.CollectedField, obj *model.Book) graphql.Marshaler {
	_, res, ok := ec.resolveField(ctx, "Book", field, nil, false, func(context.Context) (interface{}, error) {
		return obj.Author, nil
	})
	if !ok {
		return graphql.Null
	}
	return graphql.MarshalString(res.(string))
}

func (ec *executionContext) _Book_price(ctx context.Context, field graphql.CollectedField, obj *model.Book) graphql.Marshaler {
	_, res, ok := ec.resolveField(ctx, "Book", field, nil, false, func(context.Context) (interface{}, error) {
		return obj.Price, nil
	})
	if !ok {
		return graphql.Null
	}
	return graphql.MarshalInt(res.(int))
}
