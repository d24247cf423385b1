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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seehuhn.de/go/svgregress/skiplist"
	"seehuhn.de/go/svgregress/workspace"
)

func newCleanCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove generated PDFs and diff images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := workspace.Cleaner{Layout: g.cfg.Layout()}
			if err := c.ClearAll(); err != nil {
				return err
			}
			g.logger.Info("removed generated files",
				zap.String("pdfs", c.Layout.PDFRoot),
				zap.String("diffs", c.Layout.DiffRoot))
			return nil
		},
	}
}

func newSkippedCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "skipped",
		Short: "List the fixtures which are excluded from the tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skip, err := g.cfg.SkipList()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range skip.IDs() {
				reason, ok := skiplist.Reason(id)
				if !ok {
					reason = "local"
				}
				fmt.Fprintf(out, "%-12s %s\n", reason, id)
			}
			return nil
		},
	}
}
