package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/pders01/rssview/internal/backend"
	"github.com/pders01/rssview/internal/config"
	"github.com/pders01/rssview/internal/debuglog"
	"github.com/pders01/rssview/internal/feedsrv"
	"github.com/pders01/rssview/internal/opener"
	"github.com/pders01/rssview/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	backendURL string
	serveAddr  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "rssview [feed URL]",
	Short:        "View an RSS or Atom feed in the terminal",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runViewer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(tui.Banner(Version))
		fmt.Printf("rssview %s\n", Version)
		fmt.Println("github.com/pders01/rssview")
	},
}

var configGenCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		configFile := filepath.Join(config.ConfigDir(), "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference feed backend",
	Args:  cobra.NoArgs,
	RunE:  runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.Flags().StringVar(&backendURL, "backend", "", "Feed backend base URL (overrides config)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")

	rootCmd.AddCommand(versionCmd, configGenCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}

	// The terminal belongs to bubbletea; logs only ever go to the file.
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return err
	}
	defer debuglog.Close()

	tui.ApplyTheme(cfg.UI.Colors)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(backend.NewClient(cfg), opener.New(cfg), cfg).WithContext(ctx)
	if len(args) == 1 {
		app.Prefill(args[0])
	}

	if _, err := tea.NewProgram(app, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// serverLogLevel prefers the flag, then the config, and never stays silent.
func serverLogLevel(flagValue, configured string) debuglog.LogLevel {
	if flagValue != "" {
		return debuglog.ParseLogLevel(flagValue)
	}
	if level := debuglog.ParseLogLevel(configured); level != debuglog.LevelOff {
		return level
	}
	return debuglog.LevelInfo
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	if err := debuglog.Configure(debuglog.Options{
		Level:   serverLogLevel(logLevel, cfg.Log.Level),
		File:    cfg.Log.File,
		Console: true,
	}); err != nil {
		return err
	}
	defer debuglog.Close()

	srv := feedsrv.NewServer(cfg)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	}

	var g run.Group
	g.Add(func() error {
		debuglog.Infof("feed backend listening on %s", ln.Addr())
		return srv.Serve(ln)
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			debuglog.Warnf("shutdown: %v", err)
		}
	})
	g.Add(run.SignalHandler(cmd.Context(), os.Interrupt, syscall.SIGTERM))

	err = g.Run()

	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		debuglog.Infof("received %s, shutting down", sigErr.Signal)
		return nil
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
