package pipeline

import (
	"context"
	"log/slog"
	"time"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/metrics"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StageResetOutput StageName = "reset_output"
	StageAddons      StageName = "addons"
	StageLocales     StageName = "locales"
	StageIndexes     StageName = "indexes"
	StageMetadata    StageName = "metadata"
)

// Stage is a discrete unit of work in a run.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// stageList is a fluent builder for ordered stage definitions.
type stageList struct{ defs []StageDef }

func newStageList() *stageList { return &stageList{defs: make([]StageDef, 0, 5)} }

// Add appends a stage unconditionally.
func (l *stageList) Add(name StageName, fn Stage) *stageList {
	l.defs = append(l.defs, StageDef{Name: name, Fn: fn})
	return l
}

// Build returns a copy of the stage definitions.
func (l *stageList) Build() []StageDef {
	out := make([]StageDef, len(l.defs))
	copy(out, l.defs)
	return out
}

// runStages executes stages in order, recording timing and stopping on the first error.
func runStages(ctx context.Context, rs *runState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			rs.recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return derrors.StageFailed(string(st.Name), ctx.Err())
		default:
		}

		rs.log.Debug("Stage started", logfields.Stage(string(st.Name)))
		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)

		rs.result.StageDurations[string(st.Name)] = dur
		rs.recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			rs.recorder.IncStageResult(string(st.Name), metrics.ResultFatal)
			rs.log.Debug("Stage failed", logfields.Stage(string(st.Name)), logfields.DurationMS(msec(dur)))
			return derrors.StageFailed(string(st.Name), err)
		}
		rs.recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		rs.log.Info("Stage completed", logfields.Stage(string(st.Name)), logfields.DurationMS(msec(dur)))
	}
	return nil
}

func msec(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// logger for a run, tagged with its id.
func runLogger(runID string) *slog.Logger {
	return slog.Default().With(logfields.RunID(runID))
}
