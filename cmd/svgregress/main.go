// seehuhn.de/go/svgregress - visual regression tests for SVG-to-PDF converters
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command svgregress runs an SVG-to-PDF converter over a corpus of SVG
// fixtures and compares the rendered pages against reference images.
//
// Usage:
//
//	svgregress run [fixture...]   # all fixtures below the SVG root by default
//	svgregress clean              # remove generated PDFs and diff images
//	svgregress skipped            # list the fixtures which are skipped
//
// Settings are read from the YAML file given by --config.  Without a
// config file, the directories svgs/, references/, pdfs/ and diffs/ in
// the working directory are used.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"seehuhn.de/go/svgregress/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailures) {
			fmt.Fprintln(os.Stderr, "svgregress:", err)
		}
		os.Exit(1)
	}
}

// globals holds the state shared by all subcommands.
type globals struct {
	configFile string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "svgregress",
		Short:         "Visual regression tests for an SVG-to-PDF converter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configFile)
			if err != nil {
				return err
			}
			g.cfg = cfg

			zc := zap.NewProductionConfig()
			zc.Encoding = "console"
			zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if g.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			g.logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every fixture")

	root.AddCommand(newRunCmd(g), newCleanCmd(g), newSkippedCmd(g))
	return root
}
