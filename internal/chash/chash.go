// Package chash assigns a key to one of a pool's N connection slots.
// This is a stable modulo hash over a fixed, in-process slot count, not
// node-to-node consistent hashing — the pool's Non-goal excludes
// multi-server consistent-hash routing, not slot sharding within one
// pool.
package chash

import "github.com/cespare/xxhash/v2"

// Slot returns the index in [0, slots) that key maps to. slots must be > 0.
func Slot(key string, slots int) int {
	if slots <= 1 {
		return 0
	}
	sum := xxhash.Sum64String(key)
	return int(sum % uint64(slots))
}
