package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/solidguard/internal/version"
)

// NewApp creates the CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "solidguard",
		Usage:   "A static analyzer for Solidity smart contracts",
		Version: version.Version(),
		Description: `solidguard is a configurable rule engine for Solidity source.

It checks your contracts for security issues, gas-optimization
opportunities, and style problems.

Examples:
  solidguard lint contracts/Token.sol
  solidguard lint --fail-level error .
  solidguard lint --config solidguard.toml contracts/`,
		Commands: []*cli.Command{
			lintCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
