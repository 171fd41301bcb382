// Package batch resizes the textures of every model under an input tree and
// mirrors the results into an output tree.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"lv-glb-resizer/internal/host"
)

// ErrInputNotFound is returned when the input root does not exist.
var ErrInputNotFound = errors.New("batch: input directory not found")

// Config holds everything a batch run needs.
type Config struct {
	InputDir  string
	OutputDir string
	MaxSize   int
	Host      host.Host
	Log       *zap.SugaredLogger
}

// Outcome classifies what happened to one model file.
type Outcome int

const (
	Processed Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Processed:
		return "processed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result holds the outcome of processing one model file.
type Result struct {
	Rel     string
	Input   string
	Output  string
	Outcome Outcome
	Err     error
	Images  []ImageResult
}

// Summary aggregates a run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Results   []Result
}

func (s *Summary) add(r Result) {
	switch r.Outcome {
	case Processed:
		s.Processed++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Run processes every model under cfg.InputDir one at a time, in path
// order. Models whose output already exists are skipped, so an interrupted
// run can simply be started again. The returned error is non-nil only for
// problems that prevent the run from starting.
func Run(cfg Config) (Summary, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Host == nil {
		return Summary{}, errors.New("batch: no host")
	}
	if cfg.MaxSize <= 0 {
		return Summary{}, fmt.Errorf("batch: invalid max size %d", cfg.MaxSize)
	}

	info, err := os.Stat(cfg.InputDir)
	if err != nil || !info.IsDir() {
		return Summary{}, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.InputDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("batch: create output dir: %w", err)
	}

	files, err := Discover(cfg.InputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("batch: scan %s: %w", cfg.InputDir, err)
	}
	if len(files) == 0 {
		log.Infof("No %s files found in: %s", ModelExt, cfg.InputDir)
		return Summary{}, nil
	}

	log.Info("========================================")
	log.Info("LV GLB Texture Resizer")
	log.Info("========================================")
	log.Infof("Input : %s", cfg.InputDir)
	log.Infof("Output: %s", cfg.OutputDir)
	log.Infof("Max   : %dpx", cfg.MaxSize)
	log.Infof("Files : %d", len(files))
	log.Info("")

	var sum Summary
	for _, input := range files {
		r := processFile(cfg, log, input)
		sum.add(r)
		log.Info("")
	}

	log.Info("========================================")
	log.Info("Done")
	log.Info("========================================")
	log.Infof("Processed: %d", sum.Processed)
	log.Infof("Skipped  : %d", sum.Skipped)
	log.Infof("Failed   : %d", sum.Failed)

	return sum, nil
}

func processFile(cfg Config, log *zap.SugaredLogger, input string) Result {
	rel, err := filepath.Rel(cfg.InputDir, input)
	if err != nil {
		log.Errorf("ERROR processing %s: %v", input, err)
		return Result{Rel: input, Input: input, Outcome: Failed, Err: err}
	}
	r := Result{Rel: filepath.ToSlash(rel), Input: input, Output: filepath.Join(cfg.OutputDir, rel)}

	if _, err := os.Stat(r.Output); err == nil {
		log.Infof("Skipping: %s (output exists)", r.Rel)
		r.Outcome = Skipped
		return r
	}

	err = safely(func() error {
		var err error
		r.Images, err = ProcessModel(cfg.Host, input, r.Output, cfg.MaxSize, log)
		return err
	})
	if err != nil {
		log.Errorf("ERROR processing %s: %v", r.Rel, err)
		r.Outcome = Failed
		r.Err = err
		return r
	}

	r.Outcome = Processed
	return r
}
