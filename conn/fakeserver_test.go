package conn_test

import (
	"testing"

	"github.com/markchadwick/memcake/internal/fakeserver"
)

// fakeServer adapts the shared internal/fakeserver.Server to this
// package's test helpers.
type fakeServer struct {
	*fakeserver.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	s, err := fakeserver.New()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return &fakeServer{s}
}

func (s *fakeServer) addr() string { return s.Addr() }

func (s *fakeServer) closeConns() { s.CloseConns() }
