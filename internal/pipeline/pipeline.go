// Package pipeline runs the file-to-file flow around the renderer: bootstrap
// the example document, read and decode the input, render, write the post and
// optionally the calendar export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"ddfmt/internal/calendar"
	"ddfmt/internal/config"
	"ddfmt/internal/fetch"
	appLog "ddfmt/internal/log"
	"ddfmt/internal/metrics"
	"ddfmt/internal/model"
	"ddfmt/internal/report"
	"ddfmt/internal/schedule"
)

// Options carries resolved paths and collaborators for a run.
type Options struct {
	// Input is a file path or an http(s) URL.
	Input    string
	Example  string
	Output   string
	Calendar string

	// Fetcher downloads remote inputs; nil uses a fetcher with the default
	// cache directory.
	Fetcher *fetch.Fetcher
	// Reset, if set, is used to warn about stale or misaligned input.
	Reset *schedule.Reset
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result describes a completed run.
type Result struct {
	Info           model.DeepDivesInfo
	Post           string
	ExampleCreated bool
	Stale          bool
}

// OptionsFromConfig builds Options from a resolved config.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	reset, err := schedule.ParseReset(cfg.Reset, cfg.Timezone)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Input:    cfg.Input,
		Example:  cfg.Example,
		Output:   cfg.Output,
		Calendar: cfg.Calendar,
		Fetcher:  fetch.NewFetcher(cfg.CacheDir),
		Reset:    reset,
	}, nil
}

// Run performs one full pass.
func Run(ctx context.Context, opts Options) (Result, error) {
	res, err := run(ctx, opts)
	metrics.ObserveRender(err, time.Now())
	return res, err
}

func run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	if opts.Example != "" {
		created, err := EnsureExample(opts.Example)
		if err != nil {
			return res, err
		}
		res.ExampleCreated = created
	}

	info, err := LoadInput(ctx, opts)
	if err != nil {
		return res, err
	}
	res.Info = info

	if appLog.DebugEnabled() {
		if canonical, err := model.Encode(info); err == nil {
			appLog.Debug("decoded input", "input", opts.Input, "document", string(canonical))
		}
	}

	res.Post = report.Render(info)
	appLog.Debug("rendered post", "post", res.Post)

	if err := WriteFile(opts.Output, []byte(res.Post)); err != nil {
		return res, err
	}
	appLog.Info("post written", "output", opts.Output, "start", info.Start.Format(time.DateOnly), "end", info.End.Format(time.DateOnly))

	if opts.Calendar != "" {
		body, err := calendar.Export(info, calendar.ExportOptions{})
		if err != nil {
			return res, err
		}
		if err := WriteFile(opts.Calendar, body); err != nil {
			return res, err
		}
		appLog.Info("calendar written", "calendar", opts.Calendar)
	}

	if opts.Reset != nil {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		res.Stale = schedule.Stale(info.DateRange, now())
		if res.Stale {
			appLog.Warn("input window has already ended", "end", info.End.Format(time.DateOnly), "reset", opts.Reset.String())
		}
		if !opts.Reset.Aligned(info.DateRange) {
			appLog.Warn("input window does not match the reset schedule", "start", info.Start.Format(time.DateOnly), "end", info.End.Format(time.DateOnly), "reset", opts.Reset.String())
		}
	}

	return res, nil
}

// LoadInput decodes opts.Input, downloading it first when it is a URL.
func LoadInput(ctx context.Context, opts Options) (model.DeepDivesInfo, error) {
	if !fetch.IsRemote(opts.Input) {
		return Load(opts.Input)
	}

	f := opts.Fetcher
	if f == nil {
		f = fetch.NewFetcher("")
	}
	doc, err := f.Fetch(ctx, opts.Input)
	if err != nil {
		return model.DeepDivesInfo{}, fmt.Errorf("pipeline: %w", err)
	}
	info, err := model.DecodeFormat(doc.Body, doc.Format)
	if err != nil {
		return model.DeepDivesInfo{}, fmt.Errorf("pipeline: remote input: %w", err)
	}
	return info, nil
}

// Load reads and decodes the document at path; the format follows the
// file extension.
func Load(path string) (model.DeepDivesInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.DeepDivesInfo{}, fmt.Errorf("pipeline: read input: %w", err)
	}
	info, err := model.DecodeFormat(data, model.FormatFromPath(path))
	if err != nil {
		return model.DeepDivesInfo{}, fmt.Errorf("pipeline: %s: %w", path, err)
	}
	return info, nil
}

// EnsureExample writes the example document to path unless a file already
// exists there. It reports whether a file was created.
func EnsureExample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("pipeline: stat example: %w", err)
	}

	data, err := model.EncodeExample(model.FormatFromPath(path))
	if err != nil {
		return false, err
	}
	if err := WriteFile(path, data); err != nil {
		return false, err
	}
	appLog.Info("example input written", "example", path)
	return true, nil
}

// WriteFile atomically replaces path with data, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", path, err)
	}
	return nil
}
