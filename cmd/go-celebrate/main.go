package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
	"github.com/tartampluch/go-celebrate/internal/ui"
)

// options holds the parsed command line.
type options struct {
	debug     bool
	exportICS string
	mobile    bool
	settings  ui.Settings
}

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing (environment provides the defaults)
	// -------------------------------------------------------------------------
	defaults, err := loadEnvDefaults()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	flag.BoolVar(&opts.debug, config.FlagDebug, defaults.Debug, config.FlagDescDebug)
	flag.StringVar(&opts.settings.Target, config.FlagTarget, defaults.Target, config.FlagDescTarget)
	flag.StringVar(&opts.settings.Name, config.FlagName, defaults.Name, config.FlagDescName)
	flag.StringVar(&opts.settings.VCardPath, config.FlagVCard, defaults.VCard, config.FlagDescVCard)
	flag.StringVar(&opts.settings.AssetsDir, config.FlagAssets, defaults.Assets, config.FlagDescAssets)
	flag.StringVar(&opts.settings.Language, config.FlagLang, defaults.Lang, config.FlagDescLang)
	flag.StringVar(&opts.exportICS, config.FlagExportICS, "", config.FlagDescExportICS)
	flag.BoolVar(&opts.mobile, config.FlagMobile, defaults.Mobile, config.FlagDescMobile)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run resolves the honoree and the assets, then either exports the calendar
// event or starts the UI loop.
func run(ctx context.Context, opts options) error {
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	now := time.Now()
	honoree, err := ui.ResolveHonoree(a.Preferences(), opts.settings, now)
	if err != nil {
		return err
	}

	ui.ResolveLanguage(a.Preferences(), opts.settings)

	if opts.exportICS != "" {
		event := engine.NewCalendarEvent(honoree)
		event.Summary = ui.EventSummary(a.Preferences(), honoree.Name)
		return engine.ExportCalendar(opts.exportICS, event, now)
	}

	assetsDir := ui.ResolveAssetsDir(a.Preferences(), opts.settings)
	memories, err := engine.LoadMemories(assetsDir)
	if err != nil {
		return err
	}

	gui := ui.NewCelebrateApp(a, ui.Options{
		Honoree:   honoree,
		Memories:  memories,
		AssetsDir: assetsDir,
		Mobile:    opts.mobile,
	})

	// Lifecycle Bridge:
	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Blocks until the window closes.
	gui.Run()
	return nil
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
