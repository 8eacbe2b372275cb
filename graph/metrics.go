package graph

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a gqlgen extension recording operations and resolver errors.
type Metrics struct {
	Operations  *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	FieldErrors *prometheus.CounterVec
}

var _ interface {
	graphql.HandlerExtension
	graphql.OperationInterceptor
	graphql.ResponseInterceptor
	graphql.FieldInterceptor
} = &Metrics{}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gqlbooks",
			Name:      "operations_total",
			Help:      "GraphQL operations by name and outcome, rejected documents included.",
		}, []string{"operation", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gqlbooks",
			Name:      "operation_duration_seconds",
			Help:      "GraphQL operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		FieldErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gqlbooks",
			Name:      "field_errors_total",
			Help:      "Resolver errors by field.",
		}, []string{"field"}),
	}
}

func (m *Metrics) ExtensionName() string {
	return "Metrics"
}

func (m *Metrics) Validate(schema graphql.ExecutableSchema) error {
	return nil
}

func (m *Metrics) InterceptOperation(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
	name := operationName(graphql.GetOperationContext(ctx))
	start := time.Now()
	responses := next(ctx)
	return func(ctx context.Context) *graphql.Response {
		resp := responses(ctx)
		if resp == nil {
			return nil
		}
		outcome := "ok"
		if len(resp.Errors) > 0 {
			outcome = "error"
		}
		m.Operations.WithLabelValues(name, outcome).Inc()
		m.Duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		return resp
	}
}

// InterceptResponse counts documents rejected before execution. Those carry
// no data, executed operations always do and are counted by
// InterceptOperation.
func (m *Metrics) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	resp := next(ctx)
	if resp != nil && len(resp.Data) == 0 && len(resp.Errors) > 0 {
		m.Operations.WithLabelValues(requestOperation(ctx), "error").Inc()
	}
	return resp
}

func (m *Metrics) InterceptField(ctx context.Context, next graphql.Resolver) (interface{}, error) {
	res, err := next(ctx)
	if err != nil {
		fc := graphql.GetFieldContext(ctx)
		m.FieldErrors.WithLabelValues(fc.Object + "." + fc.Field.Name).Inc()
	}
	return res, err
}

func operationName(oc *graphql.OperationContext) string {
	if oc.OperationName != "" {
		return oc.OperationName
	}
	if oc.Operation != nil && oc.Operation.Name != "" {
		return oc.Operation.Name
	}
	return "anonymous"
}

// requestOperation names the operation of a rejected request. Bodies that
// fail to decode carry no operation context.
func requestOperation(ctx context.Context) (name string) {
	name = "anonymous"
	defer func() { _ = recover() }()
	return operationName(graphql.GetOperationContext(ctx))
}
