// Package main is the entry point for h19term, a Heath H19 terminal
// emulator for a serial line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/h19term/internal/app"
	"github.com/dshills/h19term/internal/bell"
	"github.com/dshills/h19term/internal/config"
	"github.com/dshills/h19term/internal/display"
	"github.com/dshills/h19term/internal/notify"
	"github.com/dshills/h19term/internal/serial"
	"github.com/dshills/h19term/internal/xmodem"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	port       string
	baud       int
	logLevel   string
	sendFile   string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	store, err := loadSettings(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg := store.Config()

	logger, logCloser, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logCloser.Close()
	app.SetLogger(logger)
	logger.Info("h19term %s starting, settings %s", version, store.Path())

	port, err := serial.Open(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		logger.Error("open %s: %v", cfg.Serial.Port, err)
		fmt.Fprintf(os.Stderr, "Error: cannot open serial port: %v\n", err)
		return 1
	}
	line := serial.NewTransport(port, serial.Options{
		Baud:     cfg.Serial.Baud,
		Settings: store,
		Logger:   logger.WithComponent("serial"),
	})
	defer line.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if f.sendFile != "" {
		return sendOnly(ctx, line, f.sendFile, logger)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: standard input is not a terminal")
		return 1
	}
	return interactive(ctx, cfg, store, line, logger)
}

func interactive(ctx context.Context, cfg config.Config, store *config.Store, line *serial.Transport, logger *app.Logger) int {
	surface, err := display.NewSurface()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create console: %v\n", err)
		return 1
	}
	if err := surface.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer surface.Fini()

	n := notify.New()
	store.SetNotifier(n)

	b := bell.New(bell.Options{
		Sound:    cfg.Bell.Sound,
		Fallback: surface.Beep,
		Logger:   logger.WithComponent("bell"),
	})
	b.SetEnabled(cfg.Bell.Enabled)
	if err := b.Init(); err != nil {
		logger.Warn("%v", err)
	}
	defer b.Close()

	var reload <-chan struct{}
	if w, err := config.Watch(store.Path(), config.DefaultDebounce); err != nil {
		logger.Warn("watch %s: %v", store.Path(), err)
	} else {
		defer w.Close()
		reload = w.Changes()
		go func() {
			for err := range w.Errors() {
				logger.Warn("watch %s: %v", store.Path(), err)
			}
		}()
	}

	session, err := app.New(app.Options{
		Config:   cfg,
		Settings: store,
		Line:     line,
		Console:  surface,
		Bell:     b,
		Notifier: n,
		Logger:   logger,
		Reload:   reload,
		Version:  version,
	})
	if err != nil {
		surface.Fini()
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		surface.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// sendOnly sends one file with XMODEM and exits, without the console.
func sendOnly(ctx context.Context, line *serial.Transport, path string, logger *app.Logger) int {
	fmt.Fprintf(os.Stderr, "Sending %s on %s, start the receiver now\n", path, line.Name())
	sender := xmodem.NewSender(line, xmodem.Options{
		Logger: logger.WithComponent("xmodem"),
		OnProgress: func(p xmodem.Progress) {
			fmt.Fprintf(os.Stderr, "\rblock %d, %d bytes", p.Blocks, p.Bytes)
		},
	})
	res, err := sender.SendFile(ctx, path)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: transfer failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Sent %d bytes in %d blocks (%d retries) in %s\n", res.Bytes, res.Blocks, res.Retries, res.Duration.Round(1e6))
	return 0
}

// loadSettings reads the settings file and applies environment and flag
// overrides, in that order.
func loadSettings(f flags) (*config.Store, error) {
	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if f.port != "" {
		cfg.Serial.Port = f.port
	}
	if f.baud != 0 {
		cfg.Serial.Baud = f.baud
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return config.NewStore(path, cfg), nil
}

// openLogger opens the debug log. An empty path discards log output.
func openLogger(cfg config.Config) (*app.Logger, io.Closer, error) {
	level := app.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.DebugFile == "" {
		lc := app.DefaultLoggerConfig()
		lc.Level = level
		return app.NewLogger(lc), io.NopCloser(nil), nil
	}
	return app.OpenLogFile(cfg.Log.DebugFile, level)
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.configPath, "config", "", "Path to settings file (default ~/"+config.FileName+")")
	flag.StringVar(&f.configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&f.port, "port", "", "Serial device")
	flag.StringVar(&f.port, "p", "", "Serial device (shorthand)")
	flag.IntVar(&f.baud, "baud", 0, "Line rate")
	flag.IntVar(&f.baud, "b", 0, "Line rate (shorthand)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.sendFile, "send", "", "Send a file with XMODEM and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "h19term - Heath H19 terminal emulator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: h19term [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  %sPORT, %sBAUD, %sCOLOUR, %sLOG_LEVEL override the settings file\n",
			config.EnvPrefix, config.EnvPrefix, config.EnvPrefix, config.EnvPrefix)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  h19term                          Connect with saved settings\n")
		fmt.Fprintf(os.Stderr, "  h19term -p /dev/ttyS0 -b 19200   Connect to another port\n")
		fmt.Fprintf(os.Stderr, "  h19term -send disk.img           Send a file and exit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("h19term %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}

	return f
}
