// Package report records the outcome of a workflow run as YAML.
//
// A report lists the patch, the run mode, every task with its kind and
// outcome, and the maintainers known at the end of the run. It is meant for
// operators who want a record of what was sent where, and for scripts that
// check a run after the fact.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"kfly/internal/maintainer"
	"kfly/internal/workflow"
)

// Report is the serialized form of a run.
type Report struct {
	Patch       string                  `yaml:"patch"`
	KernelRoot  string                  `yaml:"kernel_root"`
	StartedAt   time.Time               `yaml:"started_at"`
	Duration    string                  `yaml:"duration"`
	DryRun      bool                    `yaml:"dry_run"`
	Test        bool                    `yaml:"test"`
	Aborted     bool                    `yaml:"aborted"`
	Tasks       []TaskEntry             `yaml:"tasks"`
	Maintainers []maintainer.Maintainer `yaml:"maintainers"`
}

// TaskEntry is one task in a [Report].
type TaskEntry struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Outcome  string `yaml:"outcome"`
	Error    string `yaml:"error,omitempty"`
	Duration string `yaml:"duration,omitempty"`
}

// Meta is the run information not carried by [workflow.Summary].
type Meta struct {
	KernelRoot string
	StartedAt  time.Time
	DryRun     bool
	Test       bool
}

// New builds a [Report] from a run summary.
func New(summary *workflow.Summary, meta Meta) *Report {
	r := &Report{
		Patch:       summary.PatchPath,
		KernelRoot:  meta.KernelRoot,
		StartedAt:   meta.StartedAt.UTC().Truncate(time.Second),
		Duration:    summary.Duration.Round(time.Millisecond).String(),
		DryRun:      meta.DryRun,
		Test:        meta.Test,
		Aborted:     summary.Aborted,
		Tasks:       make([]TaskEntry, len(summary.Results)),
		Maintainers: append([]maintainer.Maintainer{}, summary.Maintainers...),
	}

	for i, res := range summary.Results {
		entry := TaskEntry{
			Name:    res.Task.Name,
			Kind:    res.Task.Kind.String(),
			Outcome: string(res.Outcome),
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		if res.Duration > 0 {
			entry.Duration = res.Duration.Round(time.Millisecond).String()
		}
		r.Tasks[i] = entry
	}

	return r
}

// Write marshals r to path, replacing any existing file atomically.
func Write(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	// Write to a temp file, then rename over the target.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write run report: %w", err)
	}

	return nil
}

// Read loads a report previously written by [Write].
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run report: %w", err)
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}

	return &r, nil
}
