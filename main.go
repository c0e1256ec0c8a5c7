package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"flag"

	"github.com/rv64i/emulator/api"
	"github.com/rv64i/emulator/config"
	"github.com/rv64i/emulator/debugger"
	"github.com/rv64i/emulator/loader"
	"github.com/rv64i/emulator/riscv"
	"github.com/rv64i/emulator/trace"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode (CLI)")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		guiMode     = flag.Bool("gui", false, "Use desktop GUI debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 0, "API server port (0 = use config/default)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum CPU cycles before halt (0 = unbounded)")
		configPath  = flag.String("config", "", "Configuration file path (default: platform config dir)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")

		enableTrace    = flag.Bool("trace", false, "Enable execution trace")
		traceFile      = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		enableStats    = flag.Bool("stats", false, "Enable performance statistics")
		statsFile      = flag.String("stats-file", "", "Statistics output file (accepted; no file is written)")
		enableCoverage = flag.Bool("coverage", false, "Enable address coverage tracking")
		coverageFile   = flag.String("coverage-file", "", "Coverage output file (accepted; no file is written)")
		registerTrace  = flag.Bool("register-trace", false, "Enable per-step register delta trace")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv64i-emu %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(cfg, *apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	imagePath := flag.Arg(0)
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", imagePath)
		os.Exit(1)
	}

	machine := riscv.NewMachine(riscv.DRAMBaseAddr, riscv.DRAMSize)

	if *verboseMode {
		fmt.Printf("Loading program image: %s\n", imagePath)
	}

	if err := loader.LoadFile(machine, imagePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	budget := *maxCycles
	if budget == 0 {
		budget = cfg.Execution.MaxCycles
	}

	instrTracer, statsCollector, coverage, cleanup := setupDiagnostics(cfg, *enableTrace, *traceFile, *enableStats, *statsFile, *enableCoverage, *coverageFile, *verboseMode)
	defer cleanup()

	if instrTracer != nil {
		machine.AddTraceHook(instrTracer.Hook)
	}
	if statsCollector != nil {
		machine.AddTraceHook(statsCollector.Hook)
	}
	if coverage != nil {
		machine.AddTraceHook(coverage.Hook)
	}

	var regTracer *trace.RegisterTracer
	if *registerTrace {
		regTracer = trace.NewRegisterTracer(machine.CPU, cfg.Trace.MaxEntries)
		machine.AddTraceHook(regTracer.Hook)
		if *verboseMode {
			fmt.Println("Register delta trace enabled")
		}
	}

	switch {
	case *guiMode:
		dbg := debugger.NewDebugger(machine)
		if err := debugger.RunGUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "GUI error: %v\n", err)
			os.Exit(1)
		}

	case *tuiMode:
		dbg := debugger.NewDebugger(machine)
		if err := debugger.RunTUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}

	case *debugMode:
		dbg := debugger.NewDebugger(machine)
		fmt.Println("rv64i debugger - type 'help' for commands")
		fmt.Printf("Program loaded: %s\n", imagePath)
		fmt.Println()
		if err := debugger.RunCLI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
			os.Exit(1)
		}

	default:
		runDirect(machine, budget, *verboseMode, regTracer)
	}

	if *verboseMode && statsCollector != nil {
		fmt.Println()
		fmt.Printf("Instructions executed: %d\n", statsCollector.Total)
	}
	if *verboseMode && coverage != nil {
		fmt.Printf("Distinct addresses executed: %d\n", coverage.Count())
	}
}

// runDirect drives the machine to completion without any debugger attached:
// until it runs off the end of DRAM, lands on pc == 0, exhausts its cycle
// budget, or hits a fatal decode error. regTracer may be nil.
func runDirect(machine *riscv.Machine, maxCycles uint64, verbose bool, regTracer *trace.RegisterTracer) {
	if verbose {
		fmt.Println("Starting execution...")
		fmt.Println("----------------------------------------")
	}

	for {
		pc := machine.CPU.PC
		if pc == 0 || !machine.Memory.Contains(pc, 4) {
			break
		}
		if maxCycles > 0 && machine.CPU.Cycles >= maxCycles {
			fmt.Fprintf(os.Stderr, "Execution stopped: cycle budget (%d) exhausted\n", maxCycles)
			os.Exit(1)
		}

		if regTracer != nil {
			regTracer.Before()
		}

		if err := machine.Step(); err != nil {
			if riscv.IsFatal(err) {
				fmt.Fprintf(os.Stderr, "\nRuntime error at PC=0x%016x: %v\n", pc, err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Warning at PC=0x%016x: %v\n", pc, err)
		}
	}

	if verbose {
		fmt.Println("----------------------------------------")
		fmt.Println("Execution complete")
		fmt.Printf("CPU cycles: %d\n", machine.CPU.Cycles)
	}
}

// loadConfig resolves the effective configuration, honoring an explicit
// -config path before falling back to the platform default.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// setupDiagnostics wires up the optional trace/statistics/coverage
// collectors requested on the command line, writing to the configured
// (or default) log paths. The returned cleanup func closes any opened
// files and must always be deferred.
func setupDiagnostics(cfg *config.Config, enableTrace bool, traceFile string, enableStats bool, statsFile string, enableCoverage bool, coverageFile string, verbose bool) (*trace.InstructionTracer, *trace.Statistics, *trace.Coverage, func()) {
	var closers []func() error

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	var instrTracer *trace.InstructionTracer
	if enableTrace || cfg.Execution.EnableTrace {
		path := traceFile
		if path == "" {
			path = filepath.Join(config.GetLogPath(), "trace.log")
		}

		f, err := os.Create(path) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
		} else {
			closers = append(closers, f.Close)
			instrTracer = trace.NewInstructionTracer(f, cfg.Trace.MaxEntries)
			if verbose {
				fmt.Printf("Execution trace enabled: %s\n", path)
			}
		}
	}

	var statsCollector *trace.Statistics
	if enableStats || cfg.Execution.EnableStats {
		statsCollector = trace.NewStatistics()
		if verbose {
			fmt.Println("Performance statistics enabled")
		}
		_ = statsFile // statistics are summarized at exit; no separate export format yet
	}

	var coverage *trace.Coverage
	if enableCoverage || cfg.Execution.EnableCoverage {
		coverage = trace.NewCoverage()
		if verbose {
			fmt.Println("Address coverage tracking enabled")
		}
		_ = coverageFile
	}

	return instrTracer, statsCollector, coverage, cleanup
}

// runAPIServer starts the HTTP API server and blocks until it receives a
// shutdown signal or its parent process disappears.
func runAPIServer(cfg *config.Config, port int) {
	if port == 0 {
		port = cfg.API.Port
	}

	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`rv64i-emu %s

Usage: rv64i-emu [options] <program-image>
       rv64i-emu -api-server [-port N]

Options:
  -help              Show this help message
  -version           Show version information
  -api-server        Start HTTP API server mode (no program image required)
  -port N            API server port (default: from config, usually 7701)
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -gui               Start in desktop GUI debugger mode
  -max-cycles N      Set maximum CPU cycles before halt (default: unbounded)
  -config FILE       Configuration file path (default: platform config dir)
  -verbose           Enable verbose output

Tracing & Performance Options:
  -trace             Enable execution trace
  -trace-file FILE   Trace output file (default: trace.log in log dir)
  -stats             Enable performance statistics
  -stats-file FILE   Statistics output file (accepted; no file is written)
  -coverage          Enable address coverage tracking
  -coverage-file F   Coverage output file (accepted; no file is written)
  -register-trace    Enable per-step register delta trace (direct-run mode only)

A program image is a flat binary: byte 0 of the file is loaded at the
machine's DRAM base address (0x80000000), with no header and no
relocations.

Examples:
  # Start API server for GUI/TUI frontends
  rv64i-emu -api-server
  rv64i-emu -api-server -port 3000

  # Run a program directly
  rv64i-emu program.bin

  # Run with the CLI debugger
  rv64i-emu -debug program.bin

  # Run with the TUI debugger
  rv64i-emu -tui program.bin

  # Run with a cycle budget and execution trace
  rv64i-emu -max-cycles 5000000 -trace program.bin

Debugger Commands (when in -debug mode):
  run, r             Start/restart program execution
  continue, c        Continue execution
  step, s            Execute single instruction
  next, n            Step over function calls
  break ADDR         Set breakpoint at address/label
  info registers     Show all registers
  print EXPR         Evaluate and print expression
  help               Show debugger help
`, Version)
}
