package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/logger"
	"github.com/aleister1102/satwatch/internal/models"
	"github.com/aleister1102/satwatch/internal/runner"
	"github.com/aleister1102/satwatch/internal/scheduler"
)

func main() {
	fmt.Println("SAT test dates monitor starting...")

	globalConfigFile := flag.String("globalconfig", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("gc", "", "Alias for --globalconfig")

	modeFlag := flag.String("mode", "", "Mode to run the tool: onetime or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for --mode")
	flag.Parse()

	if *globalConfigFile == "" && *globalConfigFileAlias != "" {
		*globalConfigFile = *globalConfigFileAlias
	}
	if *modeFlag == "" && *modeFlagAlias != "" {
		*modeFlag = *modeFlagAlias
	}

	// Notification credentials may live in a local .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Main: Could not load .env file: %v", err)
	}

	gCfg, err := config.LoadGlobalConfig(*globalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", *globalConfigFile, err)
	}

	if *modeFlag != "" {
		gCfg.Mode = *modeFlag
	}
	if gCfg.Mode == "" {
		log.Fatalln("[FATAL] --mode argument is required (onetime or automated)")
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	zLogger.Info().Str("mode", gCfg.Mode).Msg("Logger initialized successfully")

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	r, err := runner.NewRunner(gCfg, gCfg.Mode, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize runner")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, initiating graceful shutdown")
		cancel()
	}()

	switch gCfg.Mode {
	case "onetime":
		runOnetime(ctx, r, zLogger)
	case "automated":
		runAutomated(ctx, gCfg, r, zLogger)
	default:
		zLogger.Fatal().Str("mode", gCfg.Mode).Msg("Unknown mode, expected onetime or automated")
	}
}

func runOnetime(ctx context.Context, r *runner.Runner, zLogger zerolog.Logger) {
	summary, err := r.Execute(ctx)
	if err != nil {
		if summary.Status == string(models.RunStatusInterrupted) {
			zLogger.Warn().Msg("Run interrupted")
			os.Exit(130)
		}
		zLogger.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
	zLogger.Info().Str("run_id", summary.RunID).Msg("Run completed successfully")
}

func runAutomated(ctx context.Context, gCfg *config.GlobalConfig, r *runner.Runner, zLogger zerolog.Logger) {
	s, err := scheduler.NewScheduler(&gCfg.SchedulerConfig, r, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	defer func() {
		if err := s.Close(); err != nil {
			zLogger.Error().Err(err).Msg("Failed to close scheduler")
		}
	}()

	// SIGUSR1 requests an immediate check without waiting out the interval.
	triggerChan := make(chan os.Signal, 1)
	signal.Notify(triggerChan, syscall.SIGUSR1)
	defer signal.Stop(triggerChan)
	go func() {
		for range triggerChan {
			zLogger.Info().Msg("Received SIGUSR1, triggering immediate run")
			s.TriggerRun()
		}
	}()

	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zLogger.Error().Err(err).Msg("Scheduler stopped with error")
		os.Exit(1)
	}
	zLogger.Info().Msg("Scheduler stopped")
}
