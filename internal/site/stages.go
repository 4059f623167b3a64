package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	ferrors "git.home.luguber.info/inful/ralog/internal/foundation/errors"
	"git.home.luguber.info/inful/ralog/internal/logfields"
	"git.home.luguber.info/inful/ralog/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

const (
	StagePrepare  StageName = "prepare"
	StageDiscover StageName = "discover"
	StageParse    StageName = "parse"
	StageWrite    StageName = "write"
	StageIndex    StageName = "index"
	StageFinalize StageName = "finalize"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError records which stage failed. The wrapped error is usually a
// ClassifiedError.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{
		Kind:  StageErrorCanceled,
		Stage: stage,
		Err: ferrors.WrapError(err, ferrors.CategoryCanceled, "build canceled").
			Fatal().
			WithContext("stage", string(stage)).
			Build(),
	}
}

// stage is a discrete unit of work in the build.
type stage func(ctx context.Context, bs *buildState) error

type stageDef struct {
	name StageName
	fn   stage
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, bs *buildState, stages []stageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			bs.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			return newCanceledStageError(st.name, err)
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.report.StageDurations[st.name] = dur
		bs.recorder.ObserveStageDuration(string(st.name), dur)
		bs.logger.Debug("Stage finished", logfields.Stage(string(st.name)), logfields.Duration(dur))

		if err == nil {
			bs.recorder.IncStageResult(string(st.name), metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				se = newCanceledStageError(st.name, err)
			} else {
				se = newFatalStageError(st.name, err)
			}
		}
		if se.Kind == StageErrorCanceled {
			bs.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
		} else {
			bs.recorder.IncStageResult(string(st.name), metrics.ResultFatal)
		}
		return se
	}
	return nil
}
