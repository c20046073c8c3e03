package memcake

import (
	"context"

	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/pool"
)

// CallPool routes a fluent op to the pool connection owning key, the
// way Do routes it to a single connection directly. do is almost always
// an *Op's own Do method, e.g.:
//
//	fut, err := memcake.CallPool(ctx, p, "hello", memcake.Set("hello", []byte("world")).Do)
func CallPool[T any](ctx context.Context, p *pool.Pool, key string, do func(context.Context, *conn.Connection) (*future.Future[T], error)) (*future.Future[T], error) {
	var doErr error
	fut, err := pool.Call(ctx, p, key, func(c *conn.Connection) *future.Future[T] {
		f, e := do(ctx, c)
		if e != nil {
			doErr = e
			f = future.New[T]()
			f.Fail(e)
		}
		return f
	})
	if err != nil {
		return nil, err
	}
	return fut, doErr
}
