package shell

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	events []Event
}

func (r *recordingSubscriber) Dispatch(e Event) {
	r.events = append(r.events, e)
}

func (r *recordingSubscriber) kinds() []EventKind {
	var kinds []EventKind
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestRegisterEmitsStartedEvent(t *testing.T) {
	sup := NewSupervisor(context.Background())
	sub := &recordingSubscriber{}

	rc, err := sup.Register(RegisterRequest{
		CallID:     "call-1",
		Command:    []string{"echo", "hi"},
		StartMode:  Background,
		Subscriber: sub,
	})

	require.NoError(t, err)
	require.Equal(t, "shell-1", rc.ShellID)
	require.Equal(t, []EventKind{Started}, sub.kinds())
}

func TestAtMostOneActiveEntryPerID(t *testing.T) {
	sup := NewSupervisor(context.Background())
	rc1, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"a"}, StartMode: Background})
	require.NoError(t, err)
	rc2, err := sup.Register(RegisterRequest{CallID: "c2", Command: []string{"b"}, StartMode: Background})
	require.NoError(t, err)
	require.NotEqual(t, rc1.ShellID, rc2.ShellID)

	summaries := sup.Summaries(SummaryParams{})
	require.Len(t, summaries, 2)
}

func TestKillOnRunningThenAlreadyFinished(t *testing.T) {
	sup := NewSupervisor(context.Background())
	sub := &recordingSubscriber{}
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"sleep"}, StartMode: Background, Subscriber: sub})
	require.NoError(t, err)
	sup.ExecBegin(rc.CallID)

	result := sup.Kill(KillParams{ShellID: rc.ShellID, Initiator: EndedByAgent})
	require.Equal(t, Submitted, result.Result)
	require.Equal(t, EndedByAgent, result.EndedBy)

	again := sup.Kill(KillParams{ShellID: rc.ShellID})
	require.Equal(t, AlreadyFinished, again.Result)
}

func TestKillUnknownShellIDReturnsNotFound(t *testing.T) {
	sup := NewSupervisor(context.Background())
	result := sup.Kill(KillParams{ShellID: "shell-999"})
	require.Equal(t, NotFound, result.Result)
}

func TestKillByPID(t *testing.T) {
	sup := NewSupervisor(context.Background())
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"sleep"}, StartMode: Background})
	require.NoError(t, err)
	sup.ExecPid(rc.CallID, 4242)

	pid := 4242
	result := sup.Kill(KillParams{PID: &pid, Initiator: EndedByAgent})
	require.Equal(t, Submitted, result.Result)
	require.Equal(t, rc.ShellID, result.ShellID)
	require.Equal(t, EndedByAgent, result.EndedBy)
}

func TestForegroundAutoPromotion(t *testing.T) {
	restore := SetForegroundBudgetForTests(10 * time.Millisecond)
	defer restore()

	sup := NewSupervisor(context.Background())
	sub := &recordingSubscriber{}
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"sleep"}, StartMode: Foreground, Subscriber: sub})
	require.NoError(t, err)
	require.NotNil(t, rc)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rc.WaitForeground(ctx)

	require.Eventually(t, func() bool {
		kinds := sub.kinds()
		return len(kinds) >= 2 && kinds[0] == Started && kinds[1] == Promoted
	}, time.Second, 5*time.Millisecond)

	for _, k := range sub.kinds() {
		require.NotEqual(t, Terminated, k)
	}
}

func TestResumeResetsToPending(t *testing.T) {
	sup := NewSupervisor(context.Background())
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"echo"}, StartMode: Background})
	require.NoError(t, err)
	sup.ExecBegin(rc.CallID)
	sup.ExecEnd(rc.CallID, 0, "done")

	result, newRC := sup.Resume(rc.ShellID)
	require.Equal(t, Submitted, result.Result)
	require.NotNil(t, newRC)
	require.Equal(t, rc.ShellID, newRC.ShellID)
	require.NotEqual(t, rc.CallID, newRC.CallID)
}

func TestResumeOnRunningProcessIsAlreadyFinished(t *testing.T) {
	sup := NewSupervisor(context.Background())
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"echo"}, StartMode: Background})
	require.NoError(t, err)
	sup.ExecBegin(rc.CallID)

	result, newRC := sup.Resume(rc.ShellID)
	require.Equal(t, AlreadyFinished, result.Result)
	require.Nil(t, newRC)
}

func TestTailSnapshotByteBudget(t *testing.T) {
	buf := NewLogBuffer()
	long := make([]byte, 3000)
	for i := range long {
		long[i] = 'x'
	}
	buf.PushChunk(string(long)+"\n", false)
	buf.PushChunk("short\n", false)

	tail := buf.TailSnapshot()
	require.NotNil(t, tail)
	require.LessOrEqual(t, tail.Bytes, uint64(2*1024))
	require.True(t, tail.Truncated)
}

func TestRegisterRejectsDuplicateBookmark(t *testing.T) {
	sup := NewSupervisor(context.Background())
	_, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"a"}, StartMode: Background, Bookmark: "build"})
	require.NoError(t, err)

	_, err = sup.Register(RegisterRequest{CallID: "c2", Command: []string{"b"}, StartMode: Background, Bookmark: "build"})
	require.ErrorIs(t, err, ErrBookmarkInUse)
}

func TestKillByBookmarkResolvesToShellID(t *testing.T) {
	sup := NewSupervisor(context.Background())
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"sleep"}, StartMode: Background, Bookmark: "build"})
	require.NoError(t, err)
	sup.ExecBegin(rc.CallID)

	result := sup.Kill(KillParams{Bookmark: "build", Initiator: EndedByUser})
	require.Equal(t, Submitted, result.Result)
	require.Equal(t, rc.ShellID, result.ShellID)
}

func TestExecOutputDrivesTerminatedStatus(t *testing.T) {
	sup := NewSupervisor(context.Background())
	sub := &recordingSubscriber{}
	rc, err := sup.Register(RegisterRequest{CallID: "c1", Command: []string{"echo"}, StartMode: Background, Subscriber: sub})
	require.NoError(t, err)
	sup.ExecBegin(rc.CallID)
	sup.ExecEnd(rc.CallID, 1, "boom")

	summaries := sup.Summaries(SummaryParams{IncludeFailed: true})
	require.Len(t, summaries, 1)
	require.Equal(t, Failed, summaries[0].Status)
	require.Equal(t, EndedByAgent, summaries[0].EndedBy)
}
