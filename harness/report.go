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

package harness

import (
	"encoding/json"
	"io"
	"time"
)

// Report collects the results of a run, ordered by fixture ID.
type Report struct {
	Results []Result
}

// Counts returns the number of fixtures for each status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Failed returns the results with StatusMismatch or StatusError.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusMismatch || res.Status == StatusError {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether no fixture failed.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// WriteJSON writes the report to w in JSON format.
func (r *Report) WriteJSON(w io.Writer) error {
	var out struct {
		Summary map[string]int `json:"summary"`
		Results []jsonResult   `json:"results"`
	}

	out.Summary = make(map[string]int)
	for status, n := range r.Counts() {
		out.Summary[status.String()] = n
	}
	for _, res := range r.Results {
		out.Results = append(out.Results, toJSON(res))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type jsonResult struct {
	ID          string  `json:"id"`
	Status      Status  `json:"status"`
	DiffPixels  int     `json:"diff_pixels,omitempty"`
	TotalPixels int     `json:"total_pixels,omitempty"`
	Diff        string  `json:"diff,omitempty"`
	Actual      string  `json:"actual,omitempty"`
	Reference   string  `json:"reference,omitempty"`
	Error       string  `json:"error,omitempty"`
	Seconds     float64 `json:"seconds"`
}

func toJSON(res Result) jsonResult {
	jr := jsonResult{
		ID:          string(res.ID),
		Status:      res.Status,
		DiffPixels:  res.DiffPixels,
		TotalPixels: res.TotalPixels,
		Seconds:     res.Elapsed.Round(time.Millisecond).Seconds(),
	}
	if res.Diffs != nil {
		jr.Diff = res.Diffs.Diff
		jr.Actual = res.Diffs.Actual
		jr.Reference = res.Diffs.Reference
	}
	if res.Err != nil {
		jr.Error = res.Err.Error()
	}
	return jr
}
