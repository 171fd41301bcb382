package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"lv-glb-resizer/internal/host"
	"lv-glb-resizer/internal/resize"
)

// ImageOutcome classifies what happened to one image.
type ImageOutcome int

const (
	Kept ImageOutcome = iota
	Resized
	ImageFailed
)

func (o ImageOutcome) String() string {
	switch o {
	case Kept:
		return "kept"
	case Resized:
		return "resized"
	case ImageFailed:
		return "failed"
	}
	return fmt.Sprintf("ImageOutcome(%d)", int(o))
}

// ImageResult holds the outcome of processing one image.
type ImageResult struct {
	Name      string
	Outcome   ImageOutcome
	Width     int
	Height    int
	NewWidth  int
	NewHeight int
	Err       error
}

// ResizeImage applies the size bound to img. Failures are reported in the
// result and never returned.
func ResizeImage(img host.Image, maxSize int) ImageResult {
	res := ImageResult{Name: img.Name()}

	err := safely(func() error {
		w, h, err := img.Size()
		if err != nil {
			return err
		}
		res.Width, res.Height = w, h
		res.NewWidth, res.NewHeight = w, h

		nw, nh, ok := resize.Fit(w, h, maxSize)
		if !ok {
			return nil
		}
		if err := img.Scale(nw, nh); err != nil {
			return err
		}
		res.Outcome = Resized
		res.NewWidth, res.NewHeight = nw, nh
		return nil
	})
	if err != nil {
		res.Outcome = ImageFailed
		res.Err = err
	}
	return res
}

// ProcessModel runs one model through reset, import, resize and export.
// It returns the per-image results and a non-nil error when the file as a
// whole failed. Per-image failures do not fail the file.
func ProcessModel(h host.Host, input, output string, maxSize int, log *zap.SugaredLogger) ([]ImageResult, error) {
	log.Infof("Processing: %s", input)

	doc, err := h.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("reset document: %w", err)
	}
	defer doc.Close()

	if err := doc.Import(input); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	set := SelectedImages(doc.Materials())

	results := make([]ImageResult, 0, set.Len())
	resized := 0
	for _, img := range set.Images() {
		r := ResizeImage(img, maxSize)
		results = append(results, r)

		switch r.Outcome {
		case Resized:
			resized++
			log.Infof("  Resized: %s %dx%d -> %dx%d", r.Name, r.Width, r.Height, r.NewWidth, r.NewHeight)
		case Kept:
			log.Infof("  Kept:    %s (%dx%d)", r.Name, r.Width, r.Height)
		case ImageFailed:
			log.Warnf("  Warning: Failed resizing image '%s' - %v", r.Name, r.Err)
		}
	}
	log.Infof("  Textures resized: %d", resized)

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return results, fmt.Errorf("create output dir: %w", err)
	}
	if err := doc.Export(output); err != nil {
		return results, fmt.Errorf("export: %w", err)
	}
	log.Infof("  Exported: %s", output)

	return results, nil
}

// safely runs fn, turning a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
