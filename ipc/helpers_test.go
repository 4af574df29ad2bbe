package ipc_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/fake"
	"github.com/momentics/hioload-ipc/ipc"
)

type received struct {
	src     int
	code    uint32
	payload []byte
}

// recorder copies every alert; the payload slice is only valid during the call.
type recorder struct {
	got []received
}

func (r *recorder) HandleAlert(src int, code uint32, payload []byte) {
	r.got = append(r.got, received{src: src, code: code, payload: append([]byte(nil), payload...)})
}

func shared(r api.Reactor) func(int) api.Reactor {
	return func(int) api.Reactor { return r }
}

func dupAll(t *testing.T, fds []uintptr) []uintptr {
	t.Helper()
	out := make([]uintptr, len(fds))
	for i, fd := range fds {
		nfd, err := unix.Dup(int(fd))
		require.NoError(t, err)
		out[i] = uintptr(nfd)
	}
	return out
}

// cluster provisions n slots in a parent context and returns one unstarted
// context per slot, each owning duplicates of every pipe end, as a spawned
// worker would.
func cluster(t *testing.T, n int, reactors func(slot int) api.Reactor, opts ...ipc.Option) []*ipc.Context {
	t.Helper()
	parent := ipc.New()
	require.NoError(t, parent.Open(n))
	fds, layout := parent.Handoff()

	ctxs := make([]*ipc.Context, n)
	for i := range ctxs {
		c := ipc.New(append([]ipc.Option{ipc.WithReactor(reactors(i))}, opts...)...)
		require.NoError(t, c.Adopt(dupAll(t, fds), layout))
		t.Cleanup(c.Destroy)
		ctxs[i] = c
	}
	require.NoError(t, parent.Close())
	return ctxs
}

func startAll(t *testing.T, ctxs []*ipc.Context) {
	t.Helper()
	for i, c := range ctxs {
		require.NoError(t, c.Start(i))
	}
}

// pump polls r until done reports true.
func pump(t *testing.T, r *fake.Reactor, done func() bool) {
	t.Helper()
	for i := 0; !done(); i++ {
		require.Less(t, i, 200_000, "reactor made no progress")
		_, err := r.Poll(0)
		require.NoError(t, err)
	}
}

// pipeFDs returns the read and write descriptor c holds for slot.
func pipeFDs(t *testing.T, c *ipc.Context, slot int) (rfd, wfd uintptr) {
	t.Helper()
	fds, layout := c.Handoff()
	for i, s := range layout {
		if s == slot {
			return fds[2*i], fds[2*i+1]
		}
	}
	t.Fatalf("slot %d not active", slot)
	return 0, 0
}

func seq(i int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(i))
	return b
}
