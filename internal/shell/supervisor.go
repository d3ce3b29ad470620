package shell

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"navshell/internal/logging"
)

const logEventThrottle = 250 * time.Millisecond

// Supervisor owns the full lifecycle of every shell process the agent
// launches: registration, auto-promotion, log retention, and kill/resume.
// All mutation happens under a single mutex; holders must not perform I/O
// while holding it beyond field mutation, per the concurrency contract.
type Supervisor struct {
	mu          sync.Mutex
	processes   map[string]*Process
	callToShell map[string]string
	bookmarks   map[string]string // alias -> shell id, unique across live + finished entries
	nextShellID atomic.Uint64

	output   chan ExecOutputEvent
	outputTx *outputSender

	log *logging.Logger
}

// NewSupervisor starts a Supervisor and its background output-delivery
// worker. The worker runs until ctx is cancelled.
func NewSupervisor(ctx context.Context) *Supervisor {
	ch := make(chan ExecOutputEvent, execOutputChannelCapacity)
	s := &Supervisor{
		processes:   make(map[string]*Process),
		callToShell: make(map[string]string),
		bookmarks:   make(map[string]string),
		output:      ch,
		outputTx:    newOutputSender(ch),
		log:         logging.Get(logging.CategoryShell),
	}
	go s.runOutputWorker(ctx)
	return s
}

func (s *Supervisor) runOutputWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.output:
			s.onExecOutput(event)
		}
	}
}

// OutputSender exposes the bounded, non-blocking output channel so an
// exec integration can stream stdout/stderr chunks to the supervisor.
func (s *Supervisor) OutputSender() func(ExecOutputEvent) {
	return s.outputTx.Send
}

func (s *Supervisor) allocateShellID() string {
	id := s.nextShellID.Add(1)
	return fmt.Sprintf("shell-%d", id)
}

// Register inserts a new process into the registry and returns a
// RunContext the caller uses to actually exec the command. A Started
// event is dispatched before Register returns. If req.Bookmark is set and
// already bound to another live or finished process, Register returns
// ErrBookmarkInUse and does not register the process.
func (s *Supervisor) Register(req RegisterRequest) (*RunContext, error) {
	bookmark := strings.TrimSpace(req.Bookmark)
	shellID := s.allocateShellID()
	ctx, cancel := context.WithCancel(context.Background())
	createdAt := time.Now()

	var fgHandle *foregroundStateHandle
	if req.StartMode == Foreground {
		fgHandle = newForegroundStateHandle()
	}

	subscriber := req.Subscriber
	if subscriber == nil {
		subscriber = NoopSubscriber{}
	}

	proc := &Process{
		ShellID:         shellID,
		CallID:          req.CallID,
		Command:         req.Command,
		Cwd:             req.Cwd,
		Env:             req.Env,
		Label:           req.Label,
		Bookmark:        bookmark,
		StartMode:       req.StartMode,
		Status:          Pending,
		CreatedAt:       createdAt,
		log:             NewLogBuffer(),
		cancel:          cancel,
		foregroundState: fgHandle,
		subscriber:      subscriber,
	}

	s.mu.Lock()
	if bookmark != "" {
		if _, taken := s.bookmarks[bookmark]; taken {
			s.mu.Unlock()
			cancel()
			return nil, fmt.Errorf("bookmark %q: %w", bookmark, ErrBookmarkInUse)
		}
		s.bookmarks[bookmark] = shellID
	}
	s.processes[shellID] = proc
	s.callToShell[req.CallID] = shellID
	if req.StartMode == Foreground {
		autoCtx, autoCancel := context.WithCancel(context.Background())
		proc.autopromoteCancel = autoCancel
		go s.runAutopromote(autoCtx, shellID)
	}
	event := proc.buildEvent(Started, nil, "Shell command started", PromotedByNone)
	s.mu.Unlock()

	s.dispatch(subscriber, event)

	return &RunContext{
		ShellID:         shellID,
		CallID:          req.CallID,
		Command:         req.Command,
		Cwd:             req.Cwd,
		Env:             req.Env,
		StartMode:       req.StartMode,
		Ctx:             ctx,
		Cancel:          cancel,
		foregroundState: fgHandle,
	}, nil
}

func (s *Supervisor) runAutopromote(ctx context.Context, shellID string) {
	budget := foregroundBudget()
	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	s.applyPromotion(shellID, PromotedBySystem)
}

// ForceBackground promotes a Foreground process to Background on explicit
// user request. Returns false if the process is unknown, already
// Background, or already terminal.
func (s *Supervisor) ForceBackground(shellID string) bool {
	return s.applyPromotion(shellID, PromotedByUser) != nil
}

func (s *Supervisor) applyPromotion(shellID string, by PromotedBy) *Event {
	s.mu.Lock()
	proc, ok := s.processes[shellID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	if proc.StartMode != Foreground {
		s.mu.Unlock()
		return nil
	}
	if proc.Status == Completed || proc.Status == Failed {
		s.mu.Unlock()
		return nil
	}
	if proc.autopromoteCancel != nil {
		proc.autopromoteCancel()
		proc.autopromoteCancel = nil
	}
	proc.StartMode = Background
	var message string
	switch by {
	case PromotedBySystem:
		message = fmt.Sprintf("%s (%s) moved to background after %.0fs foreground budget",
			proc.label(), proc.ShellID, foregroundBudget().Seconds())
	case PromotedByUser:
		message = fmt.Sprintf("%s (%s) moved to background by user request", proc.label(), proc.ShellID)
	}
	proc.PromotedBy = by
	proc.Reason = message
	if proc.foregroundState != nil {
		proc.foregroundState.send(foregroundLifecycle{kind: lifecyclePromoted, promotedBy: by})
	}
	event := proc.buildEvent(Promoted, nil, message, by)
	subscriber := proc.subscriber
	s.mu.Unlock()

	s.dispatch(subscriber, event)
	return &event
}

// Kill terminates a process by shell id or pid. Unknown ids return
// NotFound; an already-terminal process returns AlreadyFinished.
func (s *Supervisor) Kill(params KillParams) KillResult {
	label := params.ShellID
	if label == "" && params.Bookmark != "" {
		label = params.Bookmark
	}
	if label == "" && params.PID != nil {
		label = fmt.Sprintf("pid:%d", *params.PID)
	}
	if label == "" {
		label = "unknown"
	}

	s.mu.Lock()
	targetID := s.resolveTarget(params)
	if targetID == "" {
		s.mu.Unlock()
		message := "shell_kill requires shell_id, bookmark, or pid"
		switch {
		case params.ShellID != "":
			message = "unknown shell_id"
		case params.Bookmark != "":
			message = "unknown bookmark"
		case params.PID != nil:
			message = "unknown pid"
		}
		return KillResult{ShellID: label, Result: NotFound, Message: message}
	}

	proc := s.processes[targetID]
	if proc.Status != Pending && proc.Status != Running {
		endedBy := proc.EndedBy
		s.mu.Unlock()
		return KillResult{ShellID: targetID, Result: AlreadyFinished, EndedBy: endedBy, Message: "process already finished"}
	}

	proc.Status = Failed
	now := time.Now()
	proc.CompletedAt = &now
	proc.ExitCode = nil
	initiator := params.Initiator
	if initiator == EndedByNone {
		initiator = EndedByUser
	}
	proc.EndedBy = initiator
	phrase := map[EndedBy]string{
		EndedByUser:   "killed by user",
		EndedByAgent:  "killed by agent",
		EndedBySystem: "killed by system",
	}[initiator]
	if params.Reason != "" {
		proc.Reason = params.Reason
	} else {
		proc.Reason = phrase
	}
	if proc.autopromoteCancel != nil {
		proc.autopromoteCancel()
		proc.autopromoteCancel = nil
	}
	proc.cancel()
	if proc.foregroundState != nil {
		proc.foregroundState.send(foregroundLifecycle{kind: lifecycleCompleted})
	}

	message := fmt.Sprintf("%s %s", proc.label(), phrase)
	submitted := Submitted
	event := proc.buildEventWithAction(Terminated, &submitted, message, PromotedByNone)
	returnReason := proc.Reason
	subscriber := proc.subscriber
	delete(s.callToShell, proc.CallID)
	s.mu.Unlock()

	s.dispatch(subscriber, event)

	return KillResult{ShellID: targetID, Result: Submitted, EndedBy: initiator, Message: returnReason}
}

// resolveTarget must be called with s.mu held.
func (s *Supervisor) resolveTarget(params KillParams) string {
	if params.ShellID != "" {
		if _, ok := s.processes[params.ShellID]; ok {
			return params.ShellID
		}
	}
	if params.Bookmark != "" {
		if id, ok := s.bookmarks[params.Bookmark]; ok {
			if _, ok := s.processes[id]; ok {
				return id
			}
		}
	}
	if params.PID != nil {
		for id, proc := range s.processes {
			if proc.PID != nil && *proc.PID == *params.PID {
				return id
			}
		}
	}
	return ""
}

// Resume resets a terminal process back to Pending and returns a fresh
// RunContext for an external executor to drive.
func (s *Supervisor) Resume(shellID string) (ResumeResult, *RunContext) {
	s.mu.Lock()
	proc, ok := s.processes[shellID]
	if !ok {
		s.mu.Unlock()
		return ResumeResult{ShellID: shellID, Result: NotFound, StartMode: Background}, nil
	}
	if proc.Status == Pending || proc.Status == Running {
		s.mu.Unlock()
		return ResumeResult{ShellID: shellID, Result: AlreadyFinished, StartMode: proc.StartMode}, nil
	}

	proc.Status = Pending
	proc.ExitCode = nil
	proc.EndedBy = EndedByNone
	proc.Reason = ""
	proc.CreatedAt = time.Now()
	proc.CompletedAt = nil
	proc.log = NewLogBuffer()
	proc.lastLogEmit = time.Time{}
	proc.StartMode = Background
	proc.foregroundState = nil
	proc.PromotedBy = PromotedByNone
	if proc.autopromoteCancel != nil {
		proc.autopromoteCancel()
		proc.autopromoteCancel = nil
	}

	callID := fmt.Sprintf("shell:%s:resume-%d", shellID, time.Now().UnixNano())
	ctx, cancel := context.WithCancel(context.Background())
	proc.cancel = cancel
	proc.CallID = callID

	submitted := Submitted
	event := proc.buildEventWithAction(Started, &submitted, "Shell process resumed", PromotedByNone)
	subscriber := proc.subscriber
	s.callToShell[callID] = shellID
	s.mu.Unlock()

	s.dispatch(subscriber, event)

	return ResumeResult{ShellID: shellID, Result: Submitted, StartMode: Background}, &RunContext{
		ShellID:   shellID,
		CallID:    callID,
		Command:   proc.Command,
		Cwd:       proc.Cwd,
		Env:       proc.Env,
		StartMode: Background,
		Ctx:       ctx,
		Cancel:    cancel,
	}
}

// Summaries returns every process matching the include filters, sorted
// by created-at ascending. Pending/Running entries are always included.
func (s *Supervisor) Summaries(params SummaryParams) []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Snapshot
	for _, proc := range s.processes {
		switch proc.Status {
		case Pending, Running:
		case Completed:
			if !params.IncludeCompleted {
				continue
			}
		case Failed:
			if !params.IncludeFailed {
				continue
			}
		}
		out = append(out, proc.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ReadLog returns a page of a process's log lines. Returns false if the
// shell id is unknown.
func (s *Supervisor) ReadLog(params LogParams) (LogResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc, ok := s.processes[params.ShellID]
	if !ok {
		return LogResult{}, false
	}
	limit := defaultTailLimit
	if params.Mode == Diagnostic {
		limit = defaultDiagnosticLimit
	}
	if params.Limit != nil {
		limit = *params.Limit
	}
	lines, hasMore := proc.log.ReadFrom(params.Cursor, limit)

	var nextCursor *uint64
	var rendered []string
	for _, l := range lines {
		rendered = append(rendered, l.Text)
		c := l.Cursor
		nextCursor = &c
	}
	return LogResult{
		ShellID: params.ShellID,
		Mode:    params.Mode,
		Lines:   rendered,
		Cursor:  nextCursor,
		HasMore: hasMore,
	}, true
}

// --- exec integration hooks ---

// ExecBegin marks a registered call's process Running.
func (s *Supervisor) ExecBegin(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if proc := s.lookupByCall(callID); proc != nil {
		proc.Status = Running
	}
}

// ExecPid records the OS pid once assigned.
func (s *Supervisor) ExecPid(callID string, pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if proc := s.lookupByCall(callID); proc != nil {
		proc.PID = &pid
	}
}

func (s *Supervisor) onExecOutput(event ExecOutputEvent) {
	if len(event.Chunk) == 0 {
		return
	}
	var toDispatch *Event
	var subscriber Subscriber

	s.mu.Lock()
	if proc := s.lookupByCall(event.CallID); proc != nil {
		proc.log.PushChunk(string(event.Chunk), event.Stream == Stderr)
		if proc.shouldEmitLogUpdate() {
			e := proc.buildEvent(Output, nil, "", proc.PromotedBy)
			toDispatch = &e
			subscriber = proc.subscriber
		}
	}
	s.mu.Unlock()

	if toDispatch != nil {
		s.dispatch(subscriber, *toDispatch)
	}
}

// ExecEnd flushes the log, transitions the process to its terminal
// status, and dispatches a Terminated event.
func (s *Supervisor) ExecEnd(callID string, exitCode int, formattedOutput string) {
	s.mu.Lock()
	proc := s.lookupByCall(callID)
	if proc == nil {
		s.mu.Unlock()
		return
	}
	proc.log.Flush()
	now := time.Now()
	proc.CompletedAt = &now
	code := exitCode
	proc.ExitCode = &code
	if exitCode == 0 {
		proc.Status = Completed
	} else {
		proc.Status = Failed
	}
	if proc.EndedBy == EndedByNone {
		proc.EndedBy = EndedByAgent
	}
	proc.Reason = formattedOutput
	if proc.autopromoteCancel != nil {
		proc.autopromoteCancel()
		proc.autopromoteCancel = nil
	}
	if proc.foregroundState != nil {
		proc.foregroundState.send(foregroundLifecycle{kind: lifecycleCompleted})
	}
	label := proc.label()
	var message string
	if exitCode == 0 {
		message = fmt.Sprintf("%s (%s) completed successfully", label, proc.ShellID)
	} else {
		message = fmt.Sprintf("%s (%s) exited with code %d", label, proc.ShellID, exitCode)
	}
	event := proc.buildEvent(Terminated, nil, message, PromotedByNone)
	subscriber := proc.subscriber
	delete(s.callToShell, callID)
	s.mu.Unlock()

	s.dispatch(subscriber, event)
}

// lookupByCall must be called with s.mu held.
func (s *Supervisor) lookupByCall(callID string) *Process {
	shellID, ok := s.callToShell[callID]
	if !ok {
		return nil
	}
	return s.processes[shellID]
}

func (s *Supervisor) dispatch(subscriber Subscriber, event Event) {
	if subscriber == nil {
		subscriber = NoopSubscriber{}
	}
	subscriber.Dispatch(event)
	if note, ok := event.SystemNote(); ok {
		s.log.Debug("system note", map[string]any{"shell_id": event.ShellID, "note": note})
	}
}

func (p *Process) shouldEmitLogUpdate() bool {
	now := time.Now()
	if now.Sub(p.lastLogEmit) < logEventThrottle {
		return false
	}
	p.lastLogEmit = now
	return true
}

func (p *Process) buildEvent(kind EventKind, actionResult *ActionResult, message string, promotedBy PromotedBy) Event {
	return p.buildEventWithAction(kind, actionResult, message, promotedBy)
}

func (p *Process) buildEventWithAction(kind EventKind, actionResult *ActionResult, message string, promotedBy PromotedBy) Event {
	snapshot := p.snapshot()
	return Event{
		Kind:         kind,
		ShellID:      p.ShellID,
		CallID:       p.CallID,
		Status:       p.Status,
		StartMode:    p.StartMode,
		Label:        p.Label,
		EndedBy:      p.EndedBy,
		PromotedBy:   promotedBy,
		ExitCode:     p.ExitCode,
		PID:          p.PID,
		Command:      p.Command,
		Message:      message,
		ActionResult: actionResult,
		Tail:         snapshot.Tail,
		State:        &snapshot,
	}
}
