//go:build linux

package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/reactor"
)

func newPipe(t *testing.T) (r, w int) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return p[0], p[1]
}

func TestEpollReadReadiness(t *testing.T) {
	ep, err := reactor.NewEpoll(nil)
	require.NoError(t, err)
	defer ep.Close()

	rfd, wfd := newPipe(t)
	var got api.FDEventType
	calls := 0
	require.NoError(t, ep.Register(uintptr(rfd), api.EventRead, func(fd uintptr, ev api.FDEventType) {
		assert.Equal(t, uintptr(rfd), fd)
		got = ev
		calls++
	}))

	n, err := ep.Poll(0)
	require.NoError(t, err)
	assert.Zero(t, n, "empty pipe is not readable")

	_, err = unix.Write(wfd, []byte{1})
	require.NoError(t, err)

	n, err = ep.Poll(1000)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
	assert.NotZero(t, got&api.EventRead)
}

func TestEpollArmWrite(t *testing.T) {
	ep, err := reactor.NewEpoll(nil)
	require.NoError(t, err)
	defer ep.Close()

	_, wfd := newPipe(t)
	calls := 0
	require.NoError(t, ep.Register(uintptr(wfd), 0, func(uintptr, api.FDEventType) { calls++ }))

	n, err := ep.Poll(0)
	require.NoError(t, err)
	assert.Zero(t, n, "disarmed fd must stay quiet")

	require.NoError(t, ep.Arm(uintptr(wfd), api.EventWrite))
	n, err = ep.Poll(1000)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, ep.Unregister(uintptr(wfd)))
	n, err = ep.Poll(0)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, calls)
}

func TestEpollRecoversCallbackPanic(t *testing.T) {
	ep, err := reactor.NewEpoll(nil)
	require.NoError(t, err)
	defer ep.Close()

	_, wfd := newPipe(t)
	require.NoError(t, ep.Register(uintptr(wfd), api.EventWrite, func(uintptr, api.FDEventType) {
		panic("boom")
	}))
	assert.NotPanics(t, func() {
		_, err = ep.Poll(1000)
	})
	assert.NoError(t, err)
}
