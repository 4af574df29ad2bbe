//go:build linux

package ipc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/ipc"
)

// With RLIMIT_NOFILE lowered to the next free descriptor, pipe() fails
// with EMFILE and the slot being provisioned must stay inactive.
func TestOpenPipeFailureLeavesSlotInactive(t *testing.T) {
	c := ipc.New()
	defer c.Destroy()
	require.NoError(t, c.Open(1))

	var lim unix.Rlimit
	require.NoError(t, unix.Getrlimit(unix.RLIMIT_NOFILE, &lim))
	next, err := unix.Open("/dev/null", unix.O_RDONLY|unix.O_CLOEXEC, 0)
	require.NoError(t, err)
	require.NoError(t, unix.Close(next))

	low := lim
	low.Cur = uint64(next)
	require.NoError(t, unix.Setrlimit(unix.RLIMIT_NOFILE, &low))
	err = c.Open(2)
	require.NoError(t, unix.Setrlimit(unix.RLIMIT_NOFILE, &lim))

	require.Error(t, err)
	assert.ErrorIs(t, err, unix.EMFILE)
	var ipcErr *api.Error
	require.True(t, errors.As(err, &ipcErr))
	assert.Equal(t, 1, ipcErr.Context["slot"])
	assert.True(t, c.Active(0))
	assert.False(t, c.Active(1))

	require.NoError(t, c.Open(2))
	assert.True(t, c.Active(1))
}

func TestOpenedPipesAreNonblockingAndCloseOnExec(t *testing.T) {
	c := ipc.New()
	defer c.Destroy()
	require.NoError(t, c.Open(2))
	fds, _ := c.Handoff()
	require.Len(t, fds, 4)
	for _, fd := range fds {
		fl, err := unix.FcntlInt(fd, unix.F_GETFL, 0)
		require.NoError(t, err)
		assert.NotZero(t, fl&unix.O_NONBLOCK, "fd %d blocking", fd)
		fdfl, err := unix.FcntlInt(fd, unix.F_GETFD, 0)
		require.NoError(t, err)
		assert.NotZero(t, fdfl&unix.FD_CLOEXEC, "fd %d inherited across exec", fd)
	}
}
