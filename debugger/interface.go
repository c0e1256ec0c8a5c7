package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rv64i/emulator/riscv"
)

// RunCLI runs the command-line debugger interface.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(rv64i-dbg) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		output := dbg.GetOutput()
		if output != "" {
			fmt.Print(output)
		}

		if dbg.Running {
			runUntilStopped(dbg)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// runUntilStopped steps the machine until a breakpoint/watchpoint fires,
// the program halts (PC leaves DRAM, or PC reaches zero), or a fatal
// decode error is hit.
func runUntilStopped(dbg *Debugger) {
	for dbg.Running {
		pc := dbg.Machine.CPU.PC
		if pc == 0 || !dbg.Machine.Memory.Contains(pc, 4) {
			dbg.Running = false
			fmt.Printf("Program halted at pc=0x%016x\n", pc)
			break
		}

		if err := dbg.Machine.Step(); err != nil {
			if riscv.IsFatal(err) {
				dbg.Running = false
				fmt.Printf("Fatal error: %v\n", err)
				break
			}
			fmt.Printf("Runtime error: %v\n", err)
		}

		if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
			dbg.Running = false
			fmt.Printf("Stopped: %s at pc=0x%016x\n", reason, dbg.Machine.CPU.PC)
			break
		}
	}
}

// RunTUI runs the TUI (Text User Interface) debugger.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
