package resize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		w, h, max  int
		wantW      int
		wantH      int
		wantResize bool
	}{
		{"landscape", 2048, 1024, 512, 512, 256, true},
		{"portrait", 1024, 2048, 512, 256, 512, true},
		{"square uses width branch", 1024, 1024, 512, 512, 512, true},
		{"within bound", 256, 256, 512, 256, 256, false},
		{"exactly at bound", 512, 512, 512, 512, 512, false},
		{"one side over", 600, 100, 512, 512, 85, true},
		{"truncates minor side", 1000, 333, 512, 512, 170, true},
		{"minor side floors to one", 10000, 1, 512, 512, 1, true},
		{"zero width", 0, 1024, 512, 0, 1024, false},
		{"negative height", 1024, -1, 512, 1024, -1, false},
		{"non-positive bound", 1024, 1024, 0, 1024, 1024, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := Fit(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantResize, ok)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestFitProperties(t *testing.T) {
	for _, m := range []int{1, 7, 64, 512, 1000} {
		for w := 1; w <= 1200; w += 37 {
			for h := 1; h <= 1200; h += 41 {
				nw, nh, ok := Fit(w, h, m)
				if !ok {
					assert.True(t, w <= m && h <= m, "no-op for %dx%d bound %d", w, h, m)
					continue
				}
				assert.False(t, w <= m && h <= m, "resized %dx%d bound %d", w, h, m)
				assert.Equal(t, m, max(nw, nh))
				assert.GreaterOrEqual(t, min(nw, nh), 1)

				major, minor := float64(max(w, h)), float64(min(w, h))
				want := float64(m) * minor / major
				assert.InDelta(t, want, float64(min(nw, nh)), 1.0, "%dx%d bound %d", w, h, m)
			}
		}
	}
}
