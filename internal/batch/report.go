package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ReportImage is one image entry of a run report.
type ReportImage struct {
	Name      string `json:"name"`
	Outcome   string `json:"outcome"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	NewWidth  int    `json:"new_width"`
	NewHeight int    `json:"new_height"`
	Error     string `json:"error,omitempty"`
}

// ReportEntry is one model entry of a run report.
type ReportEntry struct {
	File    string        `json:"file"`
	Output  string        `json:"output"`
	Outcome string        `json:"outcome"`
	Error   string        `json:"error,omitempty"`
	Images  []ReportImage `json:"images,omitempty"`
}

// Report is the JSON document written by WriteReport.
type Report struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Files     []ReportEntry `json:"files"`
}

// NewReport converts a run summary into its report form.
func NewReport(sum Summary) Report {
	rep := Report{
		Processed: sum.Processed,
		Skipped:   sum.Skipped,
		Failed:    sum.Failed,
		Files:     make([]ReportEntry, len(sum.Results)),
	}
	for i, r := range sum.Results {
		e := ReportEntry{
			File:    r.Rel,
			Output:  r.Output,
			Outcome: r.Outcome.String(),
			Error:   errString(r.Err),
		}
		for _, img := range r.Images {
			e.Images = append(e.Images, ReportImage{
				Name:      img.Name,
				Outcome:   img.Outcome.String(),
				Width:     img.Width,
				Height:    img.Height,
				NewWidth:  img.NewWidth,
				NewHeight: img.NewHeight,
				Error:     errString(img.Err),
			})
		}
		rep.Files[i] = e
	}
	return rep
}

// WriteReport writes the summary as JSON to path.
func WriteReport(path string, sum Summary) error {
	data, err := json.MarshalIndent(NewReport(sum), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
