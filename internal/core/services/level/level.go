// Package level implements the unified compression-level model: one 1-10
// scale (with named presets) shared by every algorithm, translated
// deterministically into each codec's native range.
package level

import (
	"fmt"
	"math"
	"strconv"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/pkg/errors"
)

const (
	// Min is the lowest unified level (fastest).
	Min = 1

	// Max is the highest unified level (best ratio).
	Max = 10

	// Default is the balanced level used when the caller leaves the level
	// unset.
	Default = 5
)

// Named presets accepted wherever a unified level is parsed from text.
const (
	PresetFast     = "fast"
	PresetBalanced = "balanced"
	PresetBest     = "best"
)

// Range is an algorithm's native level interval, inclusive on both ends.
type Range struct {
	Min int
	Max int
}

// nativeRanges pins each algorithm's native level interval. Derived levels
// are computed from this table and never stored independently.
var nativeRanges = map[domain.Algorithm]Range{
	domain.Zstd:   {Min: 1, Max: 22},
	domain.Brotli: {Min: 0, Max: 11},
	domain.Zlib:   {Min: 1, Max: 9},
	domain.Bzip2:  {Min: 1, Max: 9},
	domain.LZ4:    {Min: 1, Max: 12},
	domain.XZ:     {Min: 0, Max: 9},
}

// NativeRange returns the native level interval for the algorithm.
func NativeRange(algo domain.Algorithm) (Range, bool) {
	r, ok := nativeRanges[algo]
	return r, ok
}

// Normalize validates a unified level. Values outside [Min, Max] are
// rejected with an invalid-level error, never clamped; "leave it unset"
// semantics belong to option defaulting, not here.
func Normalize(v int) (int, error) {
	if v < Min || v > Max {
		return 0, errors.Wrap(
			errors.KindInvalidLevel, "", "normalize level",
			fmt.Errorf("level must be between %d and %d, got %d", Min, Max, v),
		)
	}
	return v, nil
}

// Parse resolves a textual level: a named preset or a decimal integer
// inside the unified range. Anything else fails with an invalid-level
// error.
func Parse(s string) (int, error) {
	switch s {
	case "":
		return Default, nil
	case PresetFast:
		return Min, nil
	case PresetBalanced:
		return Default, nil
	case PresetBest:
		return Max, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(
			errors.KindInvalidLevel, "", "parse level",
			fmt.Errorf("unknown level %q", s),
		)
	}

	return Normalize(v)
}

// Native maps a unified level onto the algorithm's native range by linear
// interpolation: min + round((u-1)/9 * (max-min)), rounding half away from
// zero. Level 1 always maps to the native minimum and level 10 to the
// native maximum; the mapping is non-decreasing in between.
func Native(unified int, algo domain.Algorithm) (int, error) {
	u, err := Normalize(unified)
	if err != nil {
		return 0, err
	}

	r, ok := nativeRanges[algo]
	if !ok {
		return 0, errors.Wrap(
			errors.KindInvalidInput, algo.String(), "map level",
			fmt.Errorf("unsupported algorithm %q", algo),
		)
	}

	span := float64(r.Max - r.Min)
	return r.Min + int(math.Round(float64(u-Min)/float64(Max-Min)*span)), nil
}
