package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
)

// StatOp is the fluent builder for stat: resolves to the accumulated
// key/value mapping once the terminator line arrives.
type StatOp struct {
	key     []byte
	timeout time.Duration
}

// Stat builds a stat query. An empty group name requests general stats;
// a non-empty one (e.g. "items") requests that stat group.
func Stat(group string) *StatOp {
	var key []byte
	if group != "" {
		key = []byte(group)
	}
	return &StatOp{key: key, timeout: defaultTimeout}
}

// Timeout overrides the per-command timeout.
func (s *StatOp) Timeout(d time.Duration) *StatOp {
	s.timeout = d
	return s
}

// Do submits the stat query.
func (s *StatOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[map[string]string], error) {
	cmd := command.NewStat(s.key, s.timeout)
	fut := conn.Submit[map[string]string](c, cmd, func() (command.Responder, *future.Future[map[string]string]) {
		return command.NewStatResponder()
	})
	return fut, ctx.Err()
}
