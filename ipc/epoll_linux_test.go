//go:build linux

package ipc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/reactor"
)

// Two workers, each driven by its own epoll loop on its own goroutine, the
// way two processes would run.
func TestEpollWorkersExchangeAlerts(t *testing.T) {
	loops := make([]*reactor.Epoll, 2)
	for i := range loops {
		ep, err := reactor.NewEpoll(nil)
		require.NoError(t, err)
		t.Cleanup(func() { ep.Close() })
		loops[i] = ep
	}
	cs := cluster(t, 2, func(slot int) api.Reactor { return loops[slot] })
	rec := &recorder{}
	cs[1].SetHandler(rec)

	const total = 5_000
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := cs[0].Start(0); err != nil {
			return err
		}
		for i := 0; i < total; i++ {
			if err := cs[0].Send(1, uint32(i), seq(i)); err != nil {
				return err
			}
		}
		for cs[0].Pending(1) > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := loops[0].Poll(10); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		if err := cs[1].Start(1); err != nil {
			return err
		}
		for len(rec.got) < total {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := loops[1].Poll(10); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())

	require.Len(t, rec.got, total)
	for i, got := range rec.got {
		require.Equal(t, uint32(i), got.code)
		require.Equal(t, seq(i), got.payload)
	}
}
