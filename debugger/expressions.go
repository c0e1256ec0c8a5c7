package debugger

import (
	"fmt"

	"github.com/rv64i/emulator/riscv"
)

// ExpressionEvaluator evaluates debugger expressions (register names,
// csr[n], memory dereferences, symbols, and arithmetic) and keeps a
// history of results so they can be re-referenced as $1, $2, ...
type ExpressionEvaluator struct {
	valueHistory []uint64
	valueNumber  int
}

// NewExpressionEvaluator creates a new expression evaluator.
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{
		valueHistory: make([]uint64, 0),
		valueNumber:  0,
	}
}

// EvaluateExpression evaluates an expression and records the result in
// the value history.
func (e *ExpressionEvaluator) EvaluateExpression(expr string, machine *riscv.Machine, symbols map[string]uint64) (uint64, error) {
	result, err := e.evaluate(expr, machine, symbols)
	if err != nil {
		return 0, err
	}

	e.valueHistory = append(e.valueHistory, result)
	e.valueNumber = len(e.valueHistory)

	return result, nil
}

// Evaluate evaluates an expression and returns a boolean result, used
// for breakpoint/watchpoint conditions.
func (e *ExpressionEvaluator) Evaluate(expr string, machine *riscv.Machine, symbols map[string]uint64) (bool, error) {
	result, err := e.evaluate(expr, machine, symbols)
	if err != nil {
		return false, err
	}

	return result != 0, nil
}

func (e *ExpressionEvaluator) evaluate(expr string, machine *riscv.Machine, symbols map[string]uint64) (uint64, error) {
	if expr == "" {
		return 0, fmt.Errorf("empty expression")
	}

	lexer := NewExprLexer(expr)
	tokens := lexer.TokenizeAll()
	parser := NewExprParser(tokens, machine, symbols, e)
	return parser.Parse()
}

// GetValueNumber returns the current value number.
func (e *ExpressionEvaluator) GetValueNumber() int {
	return e.valueNumber
}

// GetValue returns a value from history by number.
func (e *ExpressionEvaluator) GetValue(number int) (uint64, error) {
	if number < 1 || number > len(e.valueHistory) {
		return 0, fmt.Errorf("value $%d not in history", number)
	}

	return e.valueHistory[number-1], nil
}

// Reset clears the value history.
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
	e.valueNumber = 0
}
