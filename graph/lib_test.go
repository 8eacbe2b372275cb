package graph_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/senomas/gqlbooks/data"
	"github.com/senomas/gqlbooks/graph/model"
	"github.com/stretchr/testify/assert"
)

func JsonMatch(t *testing.T, expected interface{}, resp interface{}) {
	rJSON, _ := json.MarshalIndent(resp, "", "\t")
	eJSON, _ := json.MarshalIndent(expected, "", "\t")

	assert.Equal(t, string(eJSON), string(rJSON))
}

// countingSource counts reads of the wrapped source.
type countingSource struct {
	data.Source
	calls int32
}

func (s *countingSource) Books(ctx context.Context) ([]*model.Book, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.Source.Books(ctx)
}

func (s *countingSource) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

type failingSource struct {
	err error
}

func (s *failingSource) Books(ctx context.Context) ([]*model.Book, error) {
	return nil, s.err
}
