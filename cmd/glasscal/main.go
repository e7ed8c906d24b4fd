package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"glasscal/internal/capture"
	"glasscal/internal/config"
	"glasscal/internal/fixtures"
	appLog "glasscal/internal/log"
	"glasscal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	fixture    string
	logLevel   string
	once       bool
	noCapture  bool
	debug      bool
}

func main() {
	flags := parseFlags()
	appLog.SetLevel(appLog.ParseLevel(flags.logLevel))
	appLog.Info("glasscal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI overrides.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.fixture != "" {
		conf.Fixture = flags.fixture
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"week_start", conf.WeekStart,
		"window_start", conf.WindowStartHour,
		"window_end", conf.WindowEndHour,
		"hour_height_px", conf.HourHeightPx,
		"fixture", conf.Fixture,
		"refresh", conf.RefreshCron,
		"once", flags.once,
	)

	set, err := fixtures.Load(conf.Fixture)
	if err != nil {
		appLog.Error("failed to load fixture", err, "path", conf.Fixture)
		os.Exit(1)
	}

	// Root context cancelled on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	server := web.NewServer(conf, set, flags.debug)
	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		serveErr <- httpServer.ListenAndServe()
	}()

	if flags.once {
		if !flags.noCapture {
			// Give the listener a moment to come up before pointing
			// the headless browser at it.
			time.Sleep(500 * time.Millisecond)
			runCapture(ctx, conf)
		}
		shutdown(httpServer)
		return
	}

	// Periodic preview refresh on the configured cron schedule.
	var c *cron.Cron
	if !flags.noCapture {
		c = cron.New()
		if _, err := c.AddFunc(conf.RefreshCron, func() { runCapture(ctx, conf) }); err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			os.Exit(1)
		}
		c.Start()
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
		}
		cancel()
	}

	if c != nil {
		<-c.Stop().Done()
	}
	shutdown(httpServer)
	appLog.Info("glasscal exiting")
}

// runCapture renders the demo page headlessly into the preview PNG.
func runCapture(ctx context.Context, conf *config.Config) {
	opts := capture.Options{
		URL:        "http://" + conf.Listen + "/",
		OutputPath: conf.PreviewPath,
	}
	appLog.Info("capturing preview", "url", opts.URL, "output", opts.OutputPath)
	if err := capture.PreviewPNG(ctx, opts); err != nil {
		appLog.Error("preview capture failed", err)
		return
	}
	appLog.Info("preview captured", "output", opts.OutputPath)
}

func shutdown(s *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP server shutdown failed", err)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.fixture, "fixture", "", "Fixture file path (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.once, "once", false, "Serve, capture one preview, and exit")
	flag.BoolVar(&cfg.noCapture, "no-capture", false, "Disable headless preview captures")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug behavior")

	flag.Parse()

	return cfg
}
