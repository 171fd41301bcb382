// Package resize decides target texture sizes and resamples pixel buffers.
package resize

// DefaultMaxSize is the bound applied when none is configured.
const DefaultMaxSize = 512

// Fit returns the size an image of w×h should be scaled to so that neither
// side exceeds maxSize. The larger side becomes exactly maxSize and the
// smaller one is scaled proportionally, truncated, and never less than 1.
// When w == h the width is treated as the larger side.
//
// ok is false when the size is invalid (w or h not positive) or already
// within the bound; newW and newH then equal w and h.
func Fit(w, h, maxSize int) (newW, newH int, ok bool) {
	if w <= 0 || h <= 0 || maxSize <= 0 {
		return w, h, false
	}
	if w <= maxSize && h <= maxSize {
		return w, h, false
	}

	if w >= h {
		newW = maxSize
		newH = max(1, int(float64(maxSize)/float64(w)*float64(h)))
	} else {
		newH = maxSize
		newW = max(1, int(float64(maxSize)/float64(h)*float64(w)))
	}
	return newW, newH, true
}
