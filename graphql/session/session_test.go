package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatinsight/portal-backend/pipeline"
)

func TestFromRunsLoaderOnce(t *testing.T) {
	calls := 0
	want := &pipeline.Session{Source: "test"}
	ctx := With(context.Background(), func(context.Context) (*pipeline.Session, error) {
		calls++
		return want, nil
	})

	for i := 0; i < 3; i++ {
		got, err := From(ctx)
		require.NoError(t, err)
		assert.Same(t, want, got)
	}
	assert.Equal(t, 1, calls)
}

func TestFromPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	ctx := With(context.Background(), func(context.Context) (*pipeline.Session, error) { return nil, boom })
	_, err := From(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestFromWithoutLoader(t *testing.T) {
	_, err := From(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
