package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOutputSenderNeverBlocksOnFullChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := make(chan ExecOutputEvent, 1)
	sender := newOutputSender(ch)

	sender.Send(ExecOutputEvent{CallID: "c1", Chunk: []byte("first")})
	// The channel is now full; this send must spawn a retrying goroutine
	// instead of blocking the caller.
	sender.Send(ExecOutputEvent{CallID: "c1", Chunk: []byte("second")})

	first := <-ch
	require.Equal(t, []byte("first"), first.Chunk)

	// Draining lets the spawned goroutine's blocking send complete, so
	// goleak.VerifyNone above finds nothing left running.
	select {
	case second := <-ch:
		require.Equal(t, []byte("second"), second.Chunk)
	case <-time.After(time.Second):
		t.Fatal("backpressured send never delivered")
	}
}
