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

// Package skiplist holds the fixtures which are excluded from the
// regression tests.
//
// Membership is an exact string comparison: no case folding, no separator
// normalisation and no patterns.  Fixture IDs must be given in the same
// slash-separated form which is used in the list.
package skiplist

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Set is an immutable set of fixture IDs.
// A Set is safe for concurrent use.
type Set struct {
	ids map[string]struct{}
}

// New returns a set containing the given IDs.  Duplicates are ignored.
func New(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Union returns a new set containing the members of all sets.
func Union(sets ...*Set) *Set {
	s := &Set{ids: make(map[string]struct{})}
	for _, other := range sets {
		if other == nil {
			continue
		}
		maps.Copy(s.ids, other.ids)
	}
	return s
}

// Contains reports whether id is excluded.  A nil set contains nothing.
func (s *Set) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.ids))
}

// Load reads a skip list with one fixture ID per line.  Blank lines and
// lines starting with "#" are ignored, as is surrounding white space.
func Load(r io.Reader) (*Set, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "\\") {
			return nil, fmt.Errorf("skip list line %d: %q: use forward slashes", lineNo, line)
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading skip list: %w", err)
	}
	return New(ids...), nil
}
