package metadata

import (
	"math"
	"strconv"
	"strings"
)

// SizeMultiple is the granularity generation sizes snap to
const SizeMultiple = 64

// ClosestMultiple returns the multiple of m nearest to n. The candidates are
// the truncated multiple and its neighbour away from zero; the first is only
// chosen when it is strictly closer, so an exact tie yields the second.
func ClosestMultiple(n float64, m int) float64 {
	mf := float64(m)
	q := math.Trunc(n / mf)

	n1 := mf * q
	var n2 float64
	if n*mf > 0 {
		n2 = mf * (q + 1)
	} else {
		n2 = mf * (q - 1)
	}

	if math.Abs(n-n1) < math.Abs(n-n2) {
		return n1
	}
	return n2
}

// InferDimension recovers the pre-upscale generation size from a pixel size
func InferDimension(pixels int, factor float64) int {
	raw := float64(pixels) / factor
	if math.Mod(raw, SizeMultiple) != 0 {
		raw = ClosestMultiple(raw, SizeMultiple)
	}
	return int(raw)
}

// upscaleAmount returns the text before "x via" in an upscale annotation
func upscaleAmount(annotation string) string {
	amount, _, _ := strings.Cut(annotation, "x via")
	return strings.TrimSpace(amount)
}

// upscaleFactor parses the annotation's scale factor, defaulting to 1
func upscaleFactor(annotation string) float64 {
	if annotation == "" {
		return 1
	}
	f, err := strconv.ParseFloat(upscaleAmount(annotation), 64)
	if err != nil || f <= 0 {
		return 1
	}
	return f
}
