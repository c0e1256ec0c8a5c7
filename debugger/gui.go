package debugger

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/rv64i/emulator/riscv"
)

// GUI represents the graphical user interface for the debugger.
type GUI struct {
	Debugger *Debugger
	App      fyne.App
	Window   fyne.Window

	SourceView      *widget.TextGrid
	RegisterView    *widget.TextGrid
	MemoryView      *widget.TextGrid
	StackView       *widget.TextGrid
	BreakpointsList *widget.List
	ConsoleOutput   *widget.TextGrid
	StatusLabel     *widget.Label

	Toolbar *widget.Toolbar

	CurrentAddress uint64
	MemoryAddress  uint64
	StackAddress   uint64
	running        bool
	runMu          sync.Mutex

	SourceLines []string
	SourceFile  string

	breakpoints []string

	consoleBuffer strings.Builder
	consoleMutex  sync.Mutex
}

// RunGUI runs the GUI (Graphical User Interface) debugger.
func RunGUI(dbg *Debugger) error {
	gui := newGUI(dbg)
	gui.Window.ShowAndRun()
	return nil
}

// newGUI creates a new graphical user interface.
func newGUI(debugger *Debugger) *GUI {
	myApp := app.New()
	myWindow := myApp.NewWindow("RV64I Emulator Debugger")

	gui := &GUI{
		Debugger:       debugger,
		App:            myApp,
		Window:         myWindow,
		CurrentAddress: 0,
		MemoryAddress:  0,
		StackAddress:   0,
		breakpoints:    []string{},
	}

	gui.initializeViews()
	gui.buildLayout()
	gui.setupToolbar()

	myWindow.Resize(fyne.NewSize(1400, 900))

	return gui
}

func (g *GUI) initializeViews() {
	g.SourceView = widget.NewTextGrid()
	g.SourceView.SetText("No source file loaded")

	g.RegisterView = widget.NewTextGrid()
	g.updateRegisters()

	g.MemoryView = widget.NewTextGrid()
	g.updateMemory()

	g.StackView = widget.NewTextGrid()
	g.updateStack()

	g.breakpoints = []string{}
	g.BreakpointsList = widget.NewList(
		func() int {
			return len(g.breakpoints)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.breakpoints[id])
		},
	)

	g.ConsoleOutput = widget.NewTextGrid()
	g.ConsoleOutput.SetText("")

	g.StatusLabel = widget.NewLabel("Ready")
}

func (g *GUI) buildLayout() {
	sourcePanel := container.NewBorder(
		widget.NewLabel("Source"),
		nil, nil, nil,
		container.NewScroll(g.SourceView),
	)

	registerPanel := container.NewBorder(
		widget.NewLabel("Registers"),
		nil, nil, nil,
		container.NewScroll(g.RegisterView),
	)

	memoryPanel := container.NewBorder(
		widget.NewLabel("Memory"),
		nil, nil, nil,
		container.NewScroll(g.MemoryView),
	)

	stackPanel := container.NewBorder(
		widget.NewLabel("Stack"),
		nil, nil, nil,
		container.NewScroll(g.StackView),
	)

	breakpointsPanel := container.NewBorder(
		widget.NewLabel("Breakpoints"),
		nil, nil, nil,
		container.NewScroll(g.BreakpointsList),
	)

	consolePanel := container.NewBorder(
		widget.NewLabel("Console Output"),
		nil, nil, nil,
		container.NewScroll(g.ConsoleOutput),
	)

	leftPanel := container.NewMax(sourcePanel)

	rightTop := container.NewVSplit(registerPanel, breakpointsPanel)
	rightTop.SetOffset(0.6)

	bottomTabs := container.NewAppTabs(
		container.NewTabItem("Memory", memoryPanel),
		container.NewTabItem("Stack", stackPanel),
		container.NewTabItem("Console", consolePanel),
	)

	rightPanel := container.NewVSplit(rightTop, bottomTabs)
	rightPanel.SetOffset(0.5)

	mainSplit := container.NewHSplit(leftPanel, rightPanel)
	mainSplit.SetOffset(0.55)

	statusBar := container.NewBorder(nil, nil, nil, nil, g.StatusLabel)

	content := container.NewBorder(
		g.Toolbar,
		statusBar,
		nil,
		nil,
		mainSplit,
	)

	g.Window.SetContent(content)
}

func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			g.runProgram()
		}),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() {
			g.stepProgram()
		}),
		widget.NewToolbarAction(theme.MediaFastForwardIcon(), func() {
			g.continueProgram()
		}),
		widget.NewToolbarAction(theme.MediaStopIcon(), func() {
			g.stopProgram()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			g.addBreakpoint()
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			g.clearBreakpoints()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			g.refreshViews()
		}),
	)
}

func (g *GUI) updateViews() {
	g.updateSource()
	g.updateRegisters()
	g.updateMemory()
	g.updateStack()
	g.updateBreakpoints()
	g.updateConsole()
}

func (g *GUI) updateSource() {
	currentPC := g.Debugger.Machine.CPU.PC

	if len(g.SourceLines) > 0 {
		var sb strings.Builder

		currentSourceLine := ""
		if g.Debugger.SourceMap != nil {
			if line, ok := g.Debugger.SourceMap[currentPC]; ok {
				currentSourceLine = line
			}
		}

		for i, line := range g.SourceLines {
			prefix := "  "
			if line == currentSourceLine {
				prefix = "> "
			}
			sb.WriteString(fmt.Sprintf("%s%4d: %s\n", prefix, i+1, line))
		}
		g.SourceView.SetText(sb.String())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Current pc: 0x%016x\n\n", currentPC))
	if source, ok := g.Debugger.SourceMap[currentPC]; ok {
		sb.WriteString(fmt.Sprintf("> %s\n", source))
	} else {
		sb.WriteString("No source mapping available\n")
	}
	g.SourceView.SetText(sb.String())
}

func (g *GUI) updateRegisters() {
	var sb strings.Builder

	cpu := g.Debugger.Machine.CPU

	sb.WriteString("General Purpose Registers:\n")
	sb.WriteString("--------------------------\n")
	for i := 0; i < riscv.NumRegisters; i++ {
		value, _ := cpu.GetRegister(i)
		sb.WriteString(fmt.Sprintf("x%-2d: 0x%016x  (%d)\n", i, value, int64(value)))
	}

	sb.WriteString("\nProgram Counter:\n")
	sb.WriteString("--------------------------\n")
	sb.WriteString(fmt.Sprintf("pc:  0x%016x\n", cpu.PC))
	sb.WriteString(fmt.Sprintf("Cycles: %d\n", cpu.Cycles))

	g.RegisterView.SetText(sb.String())
}

func (g *GUI) updateMemory() {
	var sb strings.Builder

	addr := g.MemoryAddress
	if addr == 0 {
		addr = g.Debugger.Machine.CPU.PC
	}
	addr &^= 0xF // round down to 16-byte boundary

	sb.WriteString(fmt.Sprintf("Memory at 0x%016x:\n", addr))
	sb.WriteString("-----------------------------------------------------------\n")

	for i := uint64(0); i < 16; i++ {
		lineAddr := addr + i*16
		sb.WriteString(fmt.Sprintf("%016x: ", lineAddr))

		for j := uint64(0); j < 16; j++ {
			value, err := g.Debugger.Machine.Memory.Read(lineAddr+j, 8)
			if err == nil {
				sb.WriteString(fmt.Sprintf("%02X ", byte(value)))
			} else {
				sb.WriteString("?? ")
			}
		}

		sb.WriteString(" ")
		for j := uint64(0); j < 16; j++ {
			value, err := g.Debugger.Machine.Memory.Read(lineAddr+j, 8)
			if err == nil {
				b := byte(value)
				if b >= 32 && b < 127 {
					sb.WriteString(string(b))
				} else {
					sb.WriteString(".")
				}
			} else {
				sb.WriteString("?")
			}
		}
		sb.WriteString("\n")
	}

	g.MemoryView.SetText(sb.String())
}

func (g *GUI) updateStack() {
	var sb strings.Builder

	sp, _ := g.Debugger.Machine.CPU.GetRegister(riscv.SPRegister)

	sb.WriteString(fmt.Sprintf("Stack at sp=0x%016x:\n", sp))
	sb.WriteString("-------------------------------\n")

	for i := int64(-8); i < 24; i++ {
		addr := uint64(int64(sp) + i*8)
		prefix := "  "
		if i == 0 {
			prefix = "> "
		}

		word, err := g.Debugger.Machine.Memory.Read(addr, 64)
		if err == nil {
			sb.WriteString(fmt.Sprintf("%s%016x: %016x  (%d)\n", prefix, addr, word, int64(word)))
		}
	}

	g.StackView.SetText(sb.String())
}

func (g *GUI) updateBreakpoints() {
	breakpoints := g.Debugger.Breakpoints.GetAllBreakpoints()
	g.breakpoints = make([]string, 0, len(breakpoints))

	for _, bp := range breakpoints {
		symbol := ""
		if g.Debugger.Symbols != nil {
			for name, addr := range g.Debugger.Symbols {
				if addr == bp.Address {
					symbol = fmt.Sprintf(" [%s]", name)
					break
				}
			}
		}

		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		g.breakpoints = append(g.breakpoints, fmt.Sprintf("0x%016x%s (%s)", bp.Address, symbol, status))
	}

	g.BreakpointsList.Refresh()
}

func (g *GUI) updateConsole() {
	g.consoleMutex.Lock()
	defer g.consoleMutex.Unlock()

	g.ConsoleOutput.SetText(g.consoleBuffer.String())
}

func (g *GUI) appendConsole(text string) {
	g.consoleMutex.Lock()
	g.consoleBuffer.WriteString(text)
	g.consoleMutex.Unlock()
	g.updateConsole()
}

func (g *GUI) isRunning() bool {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	return g.running
}

func (g *GUI) setRunning(v bool) {
	g.runMu.Lock()
	g.running = v
	g.runMu.Unlock()
}

// runProgram runs the program from the current pc without resetting it.
func (g *GUI) runProgram() {
	g.StatusLabel.SetText("Running...")
	g.setRunning(true)

	go func() {
		for g.isRunning() {
			pc := g.Debugger.Machine.CPU.PC
			if pc == 0 || !g.Debugger.Machine.Memory.Contains(pc, 4) {
				g.setRunning(false)
				g.StatusLabel.SetText(fmt.Sprintf("Program halted at pc=0x%016x", pc))
				g.updateViews()
				break
			}

			if err := g.Debugger.Machine.Step(); err != nil {
				g.appendConsole(fmt.Sprintf("Error: %v\n", err))
				if riscv.IsFatal(err) {
					g.setRunning(false)
					g.StatusLabel.SetText(fmt.Sprintf("Fatal error: %v", err))
					g.updateViews()
					break
				}
			}

			if shouldBreak, reason := g.Debugger.ShouldBreak(); shouldBreak {
				g.setRunning(false)
				g.StatusLabel.SetText(fmt.Sprintf("Stopped: %s at pc=0x%016x", reason, g.Debugger.Machine.CPU.PC))
				g.updateViews()
				break
			}
		}
	}()
}

// stepProgram executes one instruction.
func (g *GUI) stepProgram() {
	if err := g.Debugger.Machine.Step(); err != nil {
		g.appendConsole(fmt.Sprintf("Error: %v\n", err))
		if riscv.IsFatal(err) {
			g.StatusLabel.SetText(fmt.Sprintf("Fatal error: %v", err))
			g.updateViews()
			return
		}
	}

	g.StatusLabel.SetText(fmt.Sprintf("Stepped to pc=0x%016x", g.Debugger.Machine.CPU.PC))
	g.updateViews()
}

// continueProgram continues execution until breakpoint.
func (g *GUI) continueProgram() {
	g.runProgram()
}

// stopProgram stops execution.
func (g *GUI) stopProgram() {
	g.setRunning(false)
	g.StatusLabel.SetText("Stopped")
	g.updateViews()
}

// addBreakpoint adds a breakpoint at current PC.
func (g *GUI) addBreakpoint() {
	pc := g.Debugger.Machine.CPU.PC
	g.Debugger.Breakpoints.AddBreakpoint(pc, false, "")
	g.updateBreakpoints()
	g.StatusLabel.SetText(fmt.Sprintf("Breakpoint added at 0x%016x", pc))
}

// clearBreakpoints removes all breakpoints.
func (g *GUI) clearBreakpoints() {
	g.Debugger.Breakpoints.Clear()
	g.updateBreakpoints()
	g.StatusLabel.SetText("All breakpoints cleared")
}

// refreshViews manually refreshes all views.
func (g *GUI) refreshViews() {
	g.updateViews()
	g.StatusLabel.SetText("Views refreshed")
}
