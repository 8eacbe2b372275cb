package exec

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

var errIntrospectionDisabled = errors.New("introspection disabled")

func (ec *executionContext) _Query___schema(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, res, ok := ec.resolveField(ctx, "Query", field, nil, true, func(context.Context) (interface{}, error) {
		if ec.DisableIntrospection {
			return nil, errIntrospectionDisabled
		}
		return introspection.WrapSchema(ec.Schema()), nil
	})
	if !ok || res == nil {
		return graphql.Null
	}
	return ec.marshalSchema(ctx, field.Selections, res.(*introspection.Schema))
}

func (ec *executionContext) _Query___type(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	args := field.ArgumentMap(ec.Variables)
	ctx, res, ok := ec.resolveField(ctx, "Query", field, args, true, func(context.Context) (interface{}, error) {
		if ec.DisableIntrospection {
			return nil, errIntrospectionDisabled
		}
		name, _ := args["name"].(string)
		return introspection.WrapTypeFromDef(ec.Schema(), ec.Schema().Types[name]), nil
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalType(ctx, field.Selections, res.(*introspection.Type))
}

// object marshals an introspection object. resolve is called once per
// selected field with a field context carrying the field's arguments.
func (ec *executionContext) object(ctx context.Context, sel ast.SelectionSet, typeName string, resolve func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{typeName})

	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		if field.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(typeName)
			continue
		}
		fc := &graphql.FieldContext{
			Object: typeName,
			Field:  field,
			Args:   field.ArgumentMap(ec.Variables),
		}
		out.Values[i] = resolve(graphql.WithFieldContext(ctx, fc), field)
	}
	out.Dispatch()
	return out
}

func (ec *executionContext) marshalSchema(ctx context.Context, sel ast.SelectionSet, obj *introspection.Schema) graphql.Marshaler {
	return ec.object(ctx, sel, "__Schema", func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
		switch field.Name {
		case "types":
			types := obj.Types()
			return list(ctx, len(types), func(ctx context.Context, i int) graphql.Marshaler {
				return ec.marshalType(ctx, field.Selections, &types[i])
			})
		case "queryType":
			return ec.marshalType(ctx, field.Selections, obj.QueryType())
		case "mutationType":
			return ec.marshalType(ctx, field.Selections, obj.MutationType())
		case "subscriptionType":
			return ec.marshalType(ctx, field.Selections, obj.SubscriptionType())
		case "directives":
			directives := obj.Directives()
			return list(ctx, len(directives), func(ctx context.Context, i int) graphql.Marshaler {
				return ec.marshalDirective(ctx, field.Selections, &directives[i])
			})
		}
		// description: the schema declares none
		return graphql.Null
	})
}

func (ec *executionContext) marshalType(ctx context.Context, sel ast.SelectionSet, obj *introspection.Type) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}
	return ec.object(ctx, sel, "__Type", func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
		switch field.Name {
		case "kind":
			return graphql.MarshalString(obj.Kind())
		case "name":
			return nullable(obj.Name())
		case "description":
			return nullable(obj.Description())
		case "specifiedByURL":
			return nullable(obj.SpecifiedByURL())
		case "fields":
			fields := obj.Fields(boolArg(ctx, "includeDeprecated"))
			if fields == nil {
				return graphql.Null
			}
			return list(ctx, len(fields), func(ctx context.Context, i int) graphql.Marshaler {
				return ec.marshalField(ctx, field.Selections, &fields[i])
			})
		case "interfaces":
			return ec.marshalTypes(ctx, field.Selections, obj.Interfaces())
		case "possibleTypes":
			return ec.marshalTypes(ctx, field.Selections, obj.PossibleTypes())
		case "enumValues":
			values := obj.EnumValues(boolArg(ctx, "includeDeprecated"))
			if values == nil {
				return graphql.Null
			}
			return list(ctx, len(values), func(ctx context.Context, i int) graphql.Marshaler {
				return ec.marshalEnumValue(ctx, field.Selections, &values[i])
			})
		case "inputFields":
			return ec.marshalInputValues(ctx, field.Selections, obj.InputFields())
		case "ofType":
			return ec.marshalType(ctx, field.Selections, obj.OfType())
		}
		return graphql.Null
	})
}

func (ec *executionContext) marshalTypes(ctx context.Context, sel ast.SelectionSet, types []introspection.Type) graphql.Marshaler {
	if types == nil {
		return graphql.Null
	}
	return list(ctx, len(types), func(ctx context.Context, i int) graphql.Marshaler {
		return ec.marshalType(ctx, sel, &types[i])
	})
}

func (ec *executionContext) marshalField(ctx context.Context, sel ast.SelectionSet, obj *introspection.Field) graphql.Marshaler {
	return ec.object(ctx, sel, "__Field", func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return nullable(obj.Description())
		case "args":
			return ec.marshalArgs(ctx, field.Selections, obj.Args)
		case "type":
			return ec.marshalType(ctx, field.Selections, obj.Type)
		case "isDeprecated":
			return graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			return nullable(obj.DeprecationReason())
		}
		return graphql.Null
	})
}

func (ec *executionContext) marshalInputValues(ctx context.Context, sel ast.SelectionSet, values []introspection.InputValue) graphql.Marshaler {
	if values == nil {
		return graphql.Null
	}
	return list(ctx, len(values), func(ctx context.Context, i int) graphql.Marshaler {
		return ec.marshalInputValue(ctx, sel, &values[i])
	})
}

// marshalArgs always answers a list; args is non-null in the introspection schema.
func (ec *executionContext) marshalArgs(ctx context.Context, sel ast.SelectionSet, args []introspection.InputValue) graphql.Marshaler {
	return list(ctx, len(args), func(ctx context.Context, i int) graphql.Marshaler {
		return ec.marshalInputValue(ctx, sel, &args[i])
	})
}

func (ec *executionContext) marshalInputValue(ctx context.Context, sel ast.SelectionSet, obj *introspection.InputValue) graphql.Marshaler {
	return ec.object(ctx, sel, "__InputValue", func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return nullable(obj.Description())
		case "type":
			return ec.marshalType(ctx, field.Selections, obj.Type)
		case "defaultValue":
			return nullable(obj.DefaultValue)
		}
		return graphql.Null
	})
}

func (ec *executionContext) marshalEnumValue(ctx context.Context, sel ast.SelectionSet, obj *introspection.EnumValue) graphql.Marshaler {
	return ec.object(ctx, sel, "__EnumValue", func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return nullable(obj.Description())
		case "isDeprecated":
			return graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			return nullable(obj.DeprecationReason())
		}
		return graphql.Null
	})
}

func (ec *executionContext) marshalDirective(ctx context.Context, sel ast.SelectionSet, obj *introspection.Directive) graphql.Marshaler {
	return ec.object(ctx, sel, "__Directive", func(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
		switch field.Name {
		case "name":
			return graphql.MarshalString(obj.Name)
		case "description":
			return nullable(obj.Description())
		case "locations":
			return list(ctx, len(obj.Locations), func(ctx context.Context, i int) graphql.Marshaler {
				return graphql.MarshalString(obj.Locations[i])
			})
		case "args":
			return ec.marshalArgs(ctx, field.Selections, obj.Args)
		case "isRepeatable":
			return graphql.MarshalBoolean(obj.IsRepeatable)
		}
		return graphql.Null
	})
}

func boolArg(ctx context.Context, name string) bool {
	v, _ := graphql.GetFieldContext(ctx).Args[name].(bool)
	return v
}

// nullable marshals an optional introspection string.
func nullable(v interface{}) graphql.Marshaler {
	switch v := v.(type) {
	case string:
		if v == "" {
			return graphql.Null
		}
		return graphql.MarshalString(v)
	case *string:
		if v == nil {
			return graphql.Null
		}
		return graphql.MarshalString(*v)
	}
	return graphql.Null
}
