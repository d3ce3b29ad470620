// Package shell supervises the lifecycle of shell processes the agent
// launches: registration, foreground-to-background auto-promotion, bounded
// log retention, and cooperative kill/resume.
package shell

import (
	"context"
	"time"
)

// StartMode is whether a process began in the foreground (subject to
// auto-promotion) or directly in the background.
type StartMode int

const (
	Foreground StartMode = iota
	Background
)

func (m StartMode) String() string {
	if m == Foreground {
		return "foreground"
	}
	return "background"
}

// Status is a process's position in its lifecycle state machine.
type Status int

const (
	Pending Status = iota
	Running
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// EndedBy identifies who caused a process's terminal transition.
type EndedBy int

const (
	EndedByNone EndedBy = iota
	EndedByAgent
	EndedByUser
	EndedBySystem
)

func (e EndedBy) String() string {
	switch e {
	case EndedByAgent:
		return "agent"
	case EndedByUser:
		return "user"
	case EndedBySystem:
		return "system"
	default:
		return "none"
	}
}

// PromotedBy identifies who promoted a process out of the foreground.
type PromotedBy int

const (
	PromotedByNone PromotedBy = iota
	PromotedByUser
	PromotedBySystem
)

func (p PromotedBy) String() string {
	switch p {
	case PromotedByUser:
		return "user"
	case PromotedBySystem:
		return "system"
	default:
		return "none"
	}
}

// RegisterRequest describes a process about to be launched.
type RegisterRequest struct {
	CallID     string
	Command    []string
	Cwd        string
	Env        map[string]string
	Label      string
	Bookmark   string
	StartMode  StartMode
	Subscriber Subscriber
}

// RunContext is handed back to the caller that actually execs the
// process; it carries the id the supervisor assigned plus cancellation
// and (for Foreground launches) a channel to observe promotion/completion.
type RunContext struct {
	ShellID         string
	CallID          string
	Command         []string
	Cwd             string
	Env             map[string]string
	StartMode       StartMode
	Ctx             context.Context
	Cancel          context.CancelFunc
	foregroundState *foregroundStateHandle
}

// WaitForeground blocks until a foreground-started process is promoted or
// completes, or ctx is cancelled. It is a no-op for background processes.
func (rc *RunContext) WaitForeground(ctx context.Context) {
	if rc.foregroundState == nil {
		return
	}
	rc.foregroundState.waitForTerminal(ctx)
}

// Process is the supervisor's internal record of one shell invocation.
// Callers interact with it only through snapshots (Summary/Detail) or
// supervisor methods; the struct itself is never exposed directly.
type Process struct {
	ShellID    string
	CallID     string
	Command    []string
	Cwd        string
	Env        map[string]string
	Label      string
	Bookmark   string
	StartMode  StartMode
	Status     Status
	PID        *int
	EndedBy    EndedBy
	PromotedBy PromotedBy
	ExitCode   *int
	Reason     string
	CreatedAt  time.Time
	CompletedAt *time.Time

	log               *LogBuffer
	cancel            context.CancelFunc
	autopromoteCancel context.CancelFunc
	foregroundState   *foregroundStateHandle
	lastLogEmit       time.Time
	subscriber        Subscriber
}

// Snapshot is an immutable view of a Process suitable for handing to a UI
// layer or including in an event; it never exposes mutable internals.
type Snapshot struct {
	ShellID     string
	CallID      string
	Command     []string
	Label       string
	Bookmark    string
	StartMode   StartMode
	Status      Status
	PID         *int
	EndedBy     EndedBy
	PromotedBy  PromotedBy
	ExitCode    *int
	Reason      string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Tail        *TailSnapshot
}

func (p *Process) label() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ShellID
}

func (p *Process) snapshot() Snapshot {
	return Snapshot{
		ShellID:     p.ShellID,
		CallID:      p.CallID,
		Command:     p.Command,
		Label:       p.Label,
		Bookmark:    p.Bookmark,
		StartMode:   p.StartMode,
		Status:      p.Status,
		PID:         p.PID,
		EndedBy:     p.EndedBy,
		PromotedBy:  p.PromotedBy,
		ExitCode:    p.ExitCode,
		Reason:      p.Reason,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
		Tail:        p.log.TailSnapshot(),
	}
}
