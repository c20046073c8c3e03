// Command memcake-bench dials a memcake pool and issues a configurable
// burst of set/get pairs, printing latency percentiles, the way
// server.Start exercises the teacher's listener end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/markchadwick/memcake"
	"github.com/markchadwick/memcake/internal/log"
	"github.com/markchadwick/memcake/pool"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:11211", "memcached address")
	conns := flag.Int("conns", 4, "number of pooled connections")
	n := flag.Int("n", 10000, "number of set/get pairs to issue")
	valSize := flag.Int("valsize", 64, "value size in bytes")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	p := pool.New(*addr, pool.WithMaxConnections(*conns), pool.WithLogger(log.New(logger)))
	defer p.Close(context.Background())

	value := make([]byte, *valSize)
	rand.Read(value)

	latencies := make([]time.Duration, 0, *n)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < *n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("memcake-bench-%d", i)
			start := time.Now()
			if err := setGet(context.Background(), p, key, value); err != nil {
				logger.Warn("op failed", zap.Error(err), zap.String("key", key))
				return
			}
			d := time.Since(start)
			mu.Lock()
			latencies = append(latencies, d)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	report(latencies)
}

func setGet(ctx context.Context, p *pool.Pool, key string, value []byte) error {
	setFut, err := memcake.CallPool(ctx, p, key, memcake.Set(key, value).Do)
	if err != nil {
		return err
	}
	if _, err := setFut.Await(ctx); err != nil {
		return err
	}

	getFut, err := memcake.CallPool(ctx, p, key, memcake.Get(key).Do)
	if err != nil {
		return err
	}
	_, err = getFut.Await(ctx)
	return err
}

func report(latencies []time.Duration) {
	if len(latencies) == 0 {
		fmt.Println("no successful operations")
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pct := func(p float64) time.Duration {
		idx := int(p * float64(len(latencies)))
		if idx >= len(latencies) {
			idx = len(latencies) - 1
		}
		return latencies[idx]
	}
	fmt.Printf("completed %d set/get pairs\n", len(latencies))
	fmt.Printf("p50=%s p90=%s p99=%s max=%s\n", pct(0.50), pct(0.90), pct(0.99), latencies[len(latencies)-1])
}
