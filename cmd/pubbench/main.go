package main

import (
	"fmt"
	"os"

	"github.com/pubbench/pubbench/internal/cli"
	"github.com/pubbench/pubbench/pkg/config"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.LoadFromEnv()

	if err := cli.Execute(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
