package main

import (
	"fmt"
	"os"

	"lv-glb-resizer/internal/batch"
	"lv-glb-resizer/internal/config"
	"lv-glb-resizer/internal/gltfhost"
	"lv-glb-resizer/internal/logger"
	"lv-glb-resizer/internal/resize"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseArgs(args)
	if err != nil {
		return err
	}

	cfg := config.Default(config.DetectBaseDir())
	if path, ok := flags[config.FlagConfig]; ok {
		if err := cfg.Load(path); err != nil {
			return err
		}
	}
	if err := cfg.Resolve(flags); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	filter, err := resize.ParseFilter(cfg.Filter)
	if err != nil {
		return err
	}

	sum, err := batch.Run(batch.Config{
		InputDir:  cfg.Input,
		OutputDir: cfg.Output,
		MaxSize:   cfg.MaxSize,
		Host:      gltfhost.New(gltfhost.Options{Filter: filter, JPEGQuality: cfg.JPEGQuality}),
		Log:       logger.Sugar,
	})
	if err != nil {
		return err
	}

	if cfg.Report != "" {
		if err := batch.WriteReport(cfg.Report, sum); err != nil {
			logger.Sugar.Warnf("Warning: report write failed: %v", err)
		} else {
			logger.Sugar.Infof("Report: %s", cfg.Report)
		}
	}
	return nil
}
