// Package main is the entry point of the material viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/texbind/internal/config"
	"github.com/Faultbox/texbind/internal/library"
	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/internal/viewer"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	first := flag.String("material", "", "Material shown first")
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *first != "" {
		cfg.Library.Material = *first
	}

	logger.Init(cfg.Logging.LoggerOptions())
	defer logger.Sync()

	logger.Info("=== texbind material viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	lib, err := library.Load(cfg.Library.Path)
	if err != nil {
		logger.Error("failed to load library", zap.Error(err))
		os.Exit(1)
	}
	cfg.Render.Profile = lib.ProfileFor(cfg.Render.Profile)

	v, err := viewer.New(cfg, lib)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
