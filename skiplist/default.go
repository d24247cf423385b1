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

package skiplist

import (
	"maps"
	"slices"
)

// reasons lists the excluded fixtures of the resvg test suite, grouped by
// the reason for excluding them.
var reasons = map[string][]string{
	// These files crash the converter.
	"crash": {
		"resvg/structure/svg/zero-size.svg",
		"resvg/structure/svg/not-UTF-8-encoding.svg",
		"resvg/structure/svg/negative-size.svg",
	},

	// Not supported by resvg, or marked as undefined behaviour in the
	// resvg test suite.
	"unsupported": {
		"resvg/shapes/rect/cap-values.svg",
		"resvg/shapes/rect/ch-values.svg",
		"resvg/shapes/rect/ic-values.svg",
		"resvg/shapes/rect/lh-values.svg",
		"resvg/shapes/rect/q-values.svg",
		"resvg/shapes/rect/rem-values.svg",
		"resvg/shapes/rect/rlh-values.svg",
		"resvg/shapes/rect/vi-and-vb-values.svg",
		"resvg/shapes/rect/vmin-and-vmax-values.svg",
		"resvg/shapes/rect/vw-and-vh-values.svg",

		"resvg/structure/image/float-size.svg",
		"resvg/structure/image/no-height-on-svg.svg",
		"resvg/structure/image/no-width-and-height-on-svg.svg",
		"resvg/structure/image/no-width-on-svg.svg",
		"resvg/structure/image/url-to-png.svg",
		"resvg/structure/image/url-to-svg.svg",

		"resvg/structure/style/external-CSS.svg",
		"resvg/structure/style/important.svg",

		"resvg/structure/svg/funcIRI-parsing.svg",
		"resvg/structure/svg/invalid-id-attribute-1.svg",
		"resvg/structure/svg/invalid-id-attribute-2.svg",
		"resvg/structure/svg/not-UTF-8-encoding.svg",
		"resvg/structure/svg/xlink-to-an-external-file.svg",

		"resvg/painting/fill/#RGBA.svg",
		"resvg/painting/fill/#RRGGBBAA.svg",
		"resvg/painting/fill/icc-color.svg",
		"resvg/painting/fill/rgb-int-int-int.svg",
		"resvg/painting/fill/rgba-0-127-0-50percent.svg",
		"resvg/painting/fill/valid-FuncIRI-with-a-fallback-ICC-color.svg",

		"resvg/painting/marker/on-ArcTo.svg",
		"resvg/painting/marker/target-with-subpaths-2.svg",
		"resvg/painting/marker/with-viewBox-1.svg",

		"resvg/painting/paint-order/fill-markers-stroke.svg",
		"resvg/painting/paint-order/stroke-markers.svg",

		"resvg/painting/stroke-dasharray/negative-sum.svg",
		"resvg/painting/stroke-dasharray/negative-values.svg",

		"resvg/painting/stroke-linejoin/arcs.svg",
		"resvg/painting/stroke-linejoin/miter-clip.svg",

		"resvg/painting/stroke-width/negative.svg",

		"resvg/masking/clip/simple-case.svg",
		"resvg/masking/clipPath/on-the-root-svg-without-size.svg",

		"resvg/masking/mask/color-interpolation=linearRGB.svg",
		"resvg/masking/mask/recursive-on-child.svg",

		"resvg/paint-servers/linearGradient/invalid-gradientTransform.svg",
		"resvg/paint-servers/pattern/invalid-patternTransform.svg",
		"resvg/paint-servers/pattern/overflow=visible.svg",

		"resvg/paint-servers/radialGradient/fr=-1.svg",
		"resvg/paint-servers/radialGradient/fr=0.2.svg",
		"resvg/paint-servers/radialGradient/fr=0.5.svg",
		"resvg/paint-servers/radialGradient/fr=0.7.svg",
		"resvg/paint-servers/radialGradient/invalid-gradientTransform.svg",
		"resvg/paint-servers/radialGradient/invalid-gradientUnits.svg",
		"resvg/paint-servers/radialGradient/negative-r.svg",
	},

	// Text rendering differs between machines, so these files fail in CI.
	"text": {
		"resvg/structure/systemLanguage/on-tspan.svg",
		"resvg/structure/svg/mixed-namespaces.svg",
		"resvg/structure/a/on-tspan.svg",
		"resvg/structure/a/inside-tspan.svg",
		"resvg/painting/visibility/hidden-on-tspan.svg",
		"resvg/painting/visibility/collapse-on-tspan.svg",
		"resvg/painting/stroke-opacity/on-text.svg",
		"resvg/painting/stroke/pattern-on-text.svg",
		"resvg/painting/marker/with-a-text-child.svg",
		"resvg/painting/fill-opacity/on-text.svg",
		"resvg/painting/fill/pattern-on-text.svg",
		"resvg/painting/display/none-on-tspan-1.svg",
		"resvg/painting/display/none-on-tref.svg",
	},
}

// Default is the built-in skip list.
var Default = fromReasons()

func fromReasons() *Set {
	var ids []string
	for _, category := range Categories() {
		ids = append(ids, reasons[category]...)
	}
	return New(ids...)
}

// Categories returns the names of the reasons used in the built-in list,
// in sorted order.
func Categories() []string {
	return slices.Sorted(maps.Keys(reasons))
}

// Reason returns the category under which id appears in the built-in list.
// If id is listed more than once, the first category in sorted order is
// returned.
func Reason(id string) (string, bool) {
	for _, category := range Categories() {
		if slices.Contains(reasons[category], id) {
			return category, true
		}
	}
	return "", false
}
