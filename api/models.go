package api

import (
	"time"

	"github.com/rv64i/emulator/config"
	"github.com/rv64i/emulator/debugger"
	"github.com/rv64i/emulator/riscv"
)

// SessionCreateRequest carries optional per-session overrides at creation
// time.
type SessionCreateRequest struct {
	MaxCycles uint64 `json:"maxCycles,omitempty"` // 0 = unbounded
}

// SessionCreateResponse is the response to POST /api/v1/session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse is the response to GET /api/v1/session/{id}.
type SessionStatusResponse struct {
	SessionID string `json:"sessionId"`
	Running   bool   `json:"running"`
	PC        uint64 `json:"pc"`
	Cycles    uint64 `json:"cycles"`
}

// LoadProgramRequest carries a flat binary image to load into DRAM. Data
// is base64-encoded on the wire by encoding/json's []byte handling.
type LoadProgramRequest struct {
	Data []byte `json:"data"`
}

// LoadProgramResponse is the response to POST /api/v1/session/{id}/load.
type LoadProgramResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// RegistersResponse is the response to GET /api/v1/session/{id}/registers.
type RegistersResponse struct {
	PC        uint64                      `json:"pc"`
	Cycles    uint64                      `json:"cycles"`
	Registers [riscv.NumRegisters]uint64  `json:"registers"`
}

// ToRegisterResponse snapshots a machine's CPU state into a RegistersResponse.
func ToRegisterResponse(machine *riscv.Machine) RegistersResponse {
	return RegistersResponse{
		PC:        machine.CPU.PC,
		Cycles:    machine.CPU.Cycles,
		Registers: machine.CPU.Snapshot(),
	}
}

// MemoryResponse is the response to GET /api/v1/session/{id}/memory.
type MemoryResponse struct {
	Address uint64 `json:"address"`
	Data    []byte `json:"data"`
	Length  uint64 `json:"length"`
}

// InstructionInfo describes one disassembled instruction.
type InstructionInfo struct {
	Address uint64 `json:"address"`
	Word    uint32 `json:"word"`
	Text    string `json:"text"`
}

// DisassemblyResponse is the response to GET /api/v1/session/{id}/disassembly.
type DisassemblyResponse struct {
	Instructions []InstructionInfo `json:"instructions"`
}

// BreakpointRequest is the body of POST/DELETE .../breakpoint.
type BreakpointRequest struct {
	Address   uint64 `json:"address"`
	Temporary bool   `json:"temporary,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// BreakpointInfo describes one breakpoint.
type BreakpointInfo struct {
	ID        int    `json:"id"`
	Address   uint64 `json:"address"`
	Enabled   bool   `json:"enabled"`
	Temporary bool   `json:"temporary"`
	Condition string `json:"condition,omitempty"`
	HitCount  int    `json:"hitCount"`
}

// ToBreakpointInfo converts a debugger.Breakpoint to its API representation.
func ToBreakpointInfo(bp *debugger.Breakpoint) BreakpointInfo {
	return BreakpointInfo{
		ID:        bp.ID,
		Address:   bp.Address,
		Enabled:   bp.Enabled,
		Temporary: bp.Temporary,
		Condition: bp.Condition,
		HitCount:  bp.HitCount,
	}
}

// BreakpointsResponse is the response to GET /api/v1/session/{id}/breakpoints.
type BreakpointsResponse struct {
	Breakpoints []BreakpointInfo `json:"breakpoints"`
}

// WatchpointRequest is the body of POST .../watchpoint.
type WatchpointRequest struct {
	Expression string `json:"expression"`
	Type       string `json:"type,omitempty"` // "read", "write", or "readwrite" (default)
}

// WatchpointInfo describes one watchpoint.
type WatchpointInfo struct {
	ID         int    `json:"id"`
	Expression string `json:"expression"`
	Type       string `json:"type"`
	Enabled    bool   `json:"enabled"`
	HitCount   int    `json:"hitCount"`
	LastValue  uint64 `json:"lastValue"`
}

// ToWatchpointInfo converts a debugger.Watchpoint to its API representation.
func ToWatchpointInfo(wp *debugger.Watchpoint) WatchpointInfo {
	return WatchpointInfo{
		ID:         wp.ID,
		Expression: wp.Expression,
		Type:       watchTypeName(wp.Type),
		Enabled:    wp.Enabled,
		HitCount:   wp.HitCount,
		LastValue:  wp.LastValue,
	}
}

func watchTypeName(t debugger.WatchType) string {
	switch t {
	case debugger.WatchRead:
		return "read"
	case debugger.WatchReadWrite:
		return "readwrite"
	default:
		return "write"
	}
}

// WatchpointsResponse is the response to GET /api/v1/session/{id}/watchpoints.
type WatchpointsResponse struct {
	Watchpoints []WatchpointInfo `json:"watchpoints"`
}

// StdinRequest is the body of POST /api/v1/session/{id}/stdin. Input is
// echoed to the session console since ECALL-based I/O is not modeled.
type StdinRequest struct {
	Data string `json:"data"`
}

// ConsoleResponse is the response to GET /api/v1/session/{id}/console.
type ConsoleResponse struct {
	Output string `json:"output"`
}

// SourceMapResponse is the response to GET /api/v1/session/{id}/sourcemap.
type SourceMapResponse struct {
	Entries map[string]string `json:"entries"`
}

// EvaluateRequest is the body of POST /api/v1/session/{id}/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the response to POST /api/v1/session/{id}/evaluate.
type EvaluateResponse struct {
	Value uint64 `json:"value"`
	Hex   string `json:"hex"`
}

// TraceEntryInfo describes one recorded instruction trace entry.
type TraceEntryInfo struct {
	Sequence int    `json:"sequence"`
	Address  uint64 `json:"address"`
	Word     uint32 `json:"word"`
	Mnemonic string `json:"mnemonic"`
	Error    string `json:"error,omitempty"`
}

// TraceDataResponse is the response to GET /api/v1/session/{id}/trace/data.
type TraceDataResponse struct {
	Entries []TraceEntryInfo `json:"entries"`
	Count   int              `json:"count"`
}

// StatisticsResponse is the response to GET /api/v1/session/{id}/stats.
type StatisticsResponse struct {
	TotalInstructions uint64            `json:"totalInstructions"`
	ByOpcode          map[string]uint64 `json:"byOpcode"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse is the standard success envelope for actions with no
// other payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ExampleInfo describes one bundled example program.
type ExampleInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ExamplesResponse is the response to GET /api/v1/examples.
type ExamplesResponse struct {
	Examples []ExampleInfo `json:"examples"`
	Count    int           `json:"count"`
}

// ExampleContentResponse is the response to GET /api/v1/examples/{name}.
type ExampleContentResponse struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
	Size int64  `json:"size"`
}

// ConfigResponse wraps the persisted configuration for the /api/v1/config
// endpoints.
type ConfigResponse struct {
	*config.Config
}
