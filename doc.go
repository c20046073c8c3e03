// Package memcake is an asynchronous client for the memcached binary
// protocol. It exposes a fluent operation builder per opcode family
// (Get, Set, Add, Replace, Delete, Increment, Decrement, Append,
// Prepend, Flush, NoOp, Version, Stat, Quit, and their *Q quiet
// variants) that build a command.Command and submit it to a
// conn.Connection or pool.Pool, resolving a future.Future[T] once the
// server responds.
//
// A typical caller dials a connection once and issues operations
// against it directly:
//
//	c, err := conn.Dial(ctx, "127.0.0.1:11211")
//	defer c.Close(ctx)
//	fut, err := memcake.Set("hello", []byte("world")).Do(ctx, c)
//	v, err := fut.Await(ctx)
//
// Callers that want connection pooling and key-based routing across
// several connections use memcake.CallPool instead of Do; see pool.go.
package memcake
