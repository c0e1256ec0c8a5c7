package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rv64i/emulator/debugger"
	"github.com/rv64i/emulator/riscv"
	"github.com/rv64i/emulator/trace"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session is one active emulator instance: a machine, its attached
// debugger, and the trace/statistics collectors wired to it as observer
// hooks. A session's machine is only ever driven from handlers holding
// mu, so the run loop and single-step handlers never race.
type Session struct {
	ID        string
	Machine   *riscv.Machine
	Debugger  *debugger.Debugger
	Tracer    *trace.InstructionTracer
	Stats     *trace.Statistics
	Console   *EventWriter
	CreatedAt time.Time
	MaxCycles uint64 // 0 = unbounded

	mu sync.Mutex
}

// SessionManager manages multiple concurrent emulator sessions.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession creates a new session with a unique ID.
func (sm *SessionManager) CreateSession(opts SessionCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	machine := riscv.NewMachine(riscv.DRAMBaseAddr, riscv.DRAMSize)
	dbg := debugger.NewDebugger(machine)

	stats := trace.NewStatistics()
	machine.AddTraceHook(stats.Hook)

	tracer := trace.NewInstructionTracer(nil, 1000)
	machine.AddTraceHook(tracer.Hook)

	var console *EventWriter
	if sm.broadcaster != nil {
		console = NewEventWriter(sm.broadcaster, sessionID, "stdout")
	}

	session := &Session{
		ID:        sessionID,
		Machine:   machine,
		Debugger:  dbg,
		Tracer:    tracer,
		Stats:     stats,
		Console:   console,
		CreatedAt: time.Now(),
		MaxCycles: opts.MaxCycles,
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	debugLog("Session %s: created", sessionID)
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns a list of all session IDs.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// generateSessionID generates a unique session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// atHalt reports whether the machine has run off the end of DRAM or
// landed on pc == 0, either of which the direct-execution driver and the
// debugger treat as program completion.
func (s *Session) atHalt() bool {
	pc := s.Machine.CPU.PC
	return pc == 0 || !s.Machine.Memory.Contains(pc, 4)
}

// overBudget reports whether the session's step budget has been exhausted.
func (s *Session) overBudget() bool {
	return s.MaxCycles > 0 && s.Machine.CPU.Cycles >= s.MaxCycles
}

// runLoop drives the machine until a breakpoint/watchpoint fires, the
// program halts, the step budget is exhausted, or a fatal decode error
// occurs. It broadcasts a state event after every step and an execution
// event when it stops. handleRun starts it in its own goroutine; the
// step-over and step-out handlers call it directly.
func (s *Session) runLoop(broadcaster *Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbg := s.Debugger

	for dbg.Running {
		if s.atHalt() {
			dbg.Running = false
			s.broadcastExecutionEvent(broadcaster, "halted", nil)
			break
		}

		if s.overBudget() {
			dbg.Running = false
			s.broadcastExecutionEvent(broadcaster, "budget_exhausted", nil)
			break
		}

		err := dbg.Machine.Step()
		s.broadcastState(broadcaster)
		if err != nil && riscv.IsFatal(err) {
			dbg.Running = false
			s.broadcastExecutionEvent(broadcaster, "error", map[string]interface{}{"message": err.Error()})
			break
		}

		if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
			dbg.Running = false
			s.broadcastExecutionEvent(broadcaster, "stopped", map[string]interface{}{"reason": reason})
			break
		}
	}
}

// broadcastState emits a state-change event carrying the current PC,
// cycle count, and full register snapshot.
func (s *Session) broadcastState(broadcaster *Broadcaster) {
	if broadcaster == nil {
		return
	}

	regs := s.Machine.CPU.Snapshot()
	registers := make([]uint64, len(regs))
	copy(registers, regs[:])

	broadcaster.BroadcastState(s.ID, map[string]interface{}{
		"pc":        s.Machine.CPU.PC,
		"cycles":    s.Machine.CPU.Cycles,
		"running":   s.Debugger.Running,
		"registers": registers,
	})
}

func (s *Session) broadcastExecutionEvent(broadcaster *Broadcaster, event string, details map[string]interface{}) {
	if broadcaster == nil {
		return
	}
	broadcaster.BroadcastExecutionEvent(s.ID, event, details)
}

// writeConsole appends text to the session's console buffer, broadcasting
// it to WebSocket subscribers if a broadcaster is attached.
func (s *Session) writeConsole(text string) {
	if s.Console == nil {
		return
	}
	fmt.Fprint(s.Console, text)
}
