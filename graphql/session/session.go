// Package session carries a lazily built pipeline session through a GraphQL request.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/threatinsight/portal-backend/pipeline"
)

// ErrNoSession is returned when the request context carries no loader.
var ErrNoSession = errors.New("no pipeline session in context")

// Loader builds a session for one request.
type Loader func(ctx context.Context) (*pipeline.Session, error)

type key struct{}

type lazy struct {
	once sync.Once
	load Loader
	s    *pipeline.Session
	err  error
}

// With attaches a loader to ctx. The loader runs at most once no matter how
// many fields of the request ask for the session.
func With(ctx context.Context, load Loader) context.Context {
	return context.WithValue(ctx, key{}, &lazy{load: load})
}

// From returns the request's session, building it on first use.
func From(ctx context.Context) (*pipeline.Session, error) {
	l, ok := ctx.Value(key{}).(*lazy)
	if !ok {
		return nil, ErrNoSession
	}
	l.once.Do(func() {
		l.s, l.err = l.load(ctx)
	})
	return l.s, l.err
}
