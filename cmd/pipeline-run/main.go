// Package main runs the pipeline once per named product and prints each
// summary as a JSON line.
//
// Usage:
//
//	pipeline-run [-seed file.yaml] product [product...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/config"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/obs"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/sim"
)

func main() {
	seedFile := flag.String("seed", "", "YAML seed file (overrides SEED_FILE)")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pipeline-run [-seed file.yaml] product [product...]")
		os.Exit(2)
	}
	if err := run(*seedFile, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(seedFile string, products []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if seedFile != "" {
		cfg.SeedFile = seedFile
	}
	obs.InitLoggerTo(os.Stderr, cfg.LogLevel)
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, p := range products {
		sum, err := s.Coordinator.Run(context.Background(), model.ProductID(p))
		if err != nil {
			return fmt.Errorf("run %s: %w", p, err)
		}
		if err := enc.Encode(sum); err != nil {
			return err
		}
	}
	return nil
}
