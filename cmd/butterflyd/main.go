// Package main provides the Butterfly API server executable.
//
// The server exposes the chaotic key derivation, encryption, and analysis
// endpoints over HTTP. Configuration layers, lowest precedence first: a YAML
// config file, environment variables (optionally loaded from a .env file),
// and command-line flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vivekjain488/Butterfly/api"
	"github.com/vivekjain488/Butterfly/chaos"
)

// CLI configuration
type CLIConfig struct {
	addr       string
	burnIn     int
	logLevel   string
	logFormat  string
	envFile    string
	configFile string
	help       bool
}

// FileConfig mirrors the YAML config file layout.
type FileConfig struct {
	Addr      string `yaml:"addr"`
	BurnIn    int    `yaml:"burn_in"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// parseCLIFlags parses command-line flags and returns the configuration.
func parseCLIFlags() *CLIConfig {
	config := &CLIConfig{}

	flag.StringVar(&config.addr, "addr", "", "Listen address (default :8080)")
	flag.IntVar(&config.burnIn, "burn-in", 0, fmt.Sprintf("Chaotic burn-in iterations (default %d)", chaos.DefaultBurnIn))
	flag.StringVar(&config.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&config.logFormat, "log-format", "", "Log format (text, json)")
	flag.StringVar(&config.envFile, "env-file", "", "Path to a .env file to load")
	flag.StringVar(&config.configFile, "config", "", "Path to a YAML config file")
	flag.BoolVar(&config.help, "help", false, "Show help message")

	flag.Parse()
	return config
}

func printUsage() {
	fmt.Println("Butterfly API Server")
	fmt.Println()
	fmt.Println("Chaotic key derivation, encryption, and randomness analysis over HTTP.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options]\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment variables (overridden by flags):")
	fmt.Println("  BUTTERFLY_ADDR        Listen address")
	fmt.Println("  BUTTERFLY_LOG_LEVEL   Log level")
	fmt.Println("  BUTTERFLY_LOG_FORMAT  Log format")
}

// resolveConfig merges file, environment, and flag settings. Flags win over
// environment variables, which win over the config file.
func resolveConfig(cli *CLIConfig) (*FileConfig, error) {
	resolved := &FileConfig{
		Addr:      ":8080",
		BurnIn:    chaos.DefaultBurnIn,
		LogLevel:  "info",
		LogFormat: "text",
	}

	if cli.configFile != "" {
		data, err := os.ReadFile(cli.configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		var fc FileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		applyFileConfig(resolved, &fc)
	}

	applyFileConfig(resolved, &FileConfig{
		Addr:      os.Getenv("BUTTERFLY_ADDR"),
		LogLevel:  os.Getenv("BUTTERFLY_LOG_LEVEL"),
		LogFormat: os.Getenv("BUTTERFLY_LOG_FORMAT"),
	})

	applyFileConfig(resolved, &FileConfig{
		Addr:      cli.addr,
		BurnIn:    cli.burnIn,
		LogLevel:  cli.logLevel,
		LogFormat: cli.logFormat,
	})

	if resolved.BurnIn < 0 {
		return nil, fmt.Errorf("burn-in must be non-negative, got %d", resolved.BurnIn)
	}
	return resolved, nil
}

// applyFileConfig overlays non-zero fields of src onto dst.
func applyFileConfig(dst, src *FileConfig) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.BurnIn != 0 {
		dst.BurnIn = src.BurnIn
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
}

func setupLogging(cfg *FileConfig) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	switch cfg.LogFormat {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", cfg.LogFormat)
	}
	return nil
}

func run(cli *CLIConfig) error {
	if cli.envFile != "" {
		if err := godotenv.Load(cli.envFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	cfg, err := resolveConfig(cli)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	server := api.NewServerWithBurnIn(cfg.BurnIn)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"package": "main",
			"addr":    cfg.Addr,
			"burn_in": cfg.BurnIn,
		}).Info("Butterfly API server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logrus.WithField("package", "main").Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	logrus.WithField("package", "main").Info("Server stopped")
	return nil
}

func main() {
	cli := parseCLIFlags()
	if cli.help {
		printUsage()
		os.Exit(0)
	}

	if err := run(cli); err != nil {
		logrus.WithFields(logrus.Fields{
			"package": "main",
			"error":   err.Error(),
		}).Fatal("Server failed")
	}
}
