// Package sim drives a robot from a command script.
package sim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"toyrobot/internal/interpreter"
	"toyrobot/internal/journal"
	"toyrobot/internal/robot"
)

const tracerName = "toyrobot/internal/sim"

// StepRecorder receives every processed line.
type StepRecorder interface {
	RecordStep(ctx context.Context, step journal.Step) error
}

// Config controls script execution.
type Config struct {
	Verbose  bool
	Logger   *log.Logger
	Recorder StepRecorder
}

// Summary counts what happened to the lines of a script. Blank lines are not
// counted at all.
type Summary struct {
	Lines    int
	Applied  int
	Rejected int
	Ignored  int
	Reports  int
}

// Runner feeds script lines to a robot one at a time.
type Runner struct {
	robot    *robot.Robot
	logger   *log.Logger
	verbose  bool
	recorder StepRecorder
	tracer   trace.Tracer
}

func NewRunner(r *robot.Robot, cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Runner{
		robot:    r,
		logger:   logger,
		verbose:  cfg.Verbose,
		recorder: cfg.Recorder,
		tracer:   otel.Tracer(tracerName),
	}
}

// Run executes script against the robot and writes each report to out.
//
// Lines that do not parse are ignored and commands the robot refuses are
// skipped; neither stops the run. Errors come only from reading the script,
// writing a report, recording a step, or ctx being done.
func (r *Runner) Run(ctx context.Context, script io.Reader, out io.Writer) (Summary, error) {
	var sum Summary
	prog, err := interpreter.Parse(script)
	if err != nil {
		return sum, err
	}

	ctx, span := r.tracer.Start(ctx, "robot.run", trace.WithAttributes(
		attribute.Int("script.lines", len(prog.Lines)),
		attribute.Int("grid.size", r.robot.Grid().Size()),
	))
	defer span.End()

	r.logf("run start: %d lines", len(prog.Lines))
	for _, line := range prog.Lines {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Lines++
		step, err := r.runLine(ctx, line, out)
		if err != nil {
			return sum, fmt.Errorf("line %d: %w", line.Number, err)
		}
		switch step.Outcome {
		case journal.OutcomeApplied:
			sum.Applied++
			if step.Report != "" {
				sum.Reports++
			}
		case journal.OutcomeRejected:
			sum.Rejected++
		case journal.OutcomeIgnored:
			sum.Ignored++
		}
	}
	r.logf("run done: %d applied, %d rejected, %d ignored, robot at %v", sum.Applied, sum.Rejected, sum.Ignored, r.robot)
	span.SetAttributes(
		attribute.Int("robot.applied", sum.Applied),
		attribute.Int("robot.rejected", sum.Rejected),
		attribute.Int("robot.ignored", sum.Ignored),
	)
	return sum, nil
}

func (r *Runner) runLine(ctx context.Context, line interpreter.Line, out io.Writer) (journal.Step, error) {
	step := journal.Step{Line: line.Number, Text: line.Text}

	var cmd robot.Command
	err := line.Err
	if err == nil {
		cmd, err = line.Stmt.Command()
	}

	spanName := "robot.ignored"
	if err == nil {
		step.Kind = cmd.Kind.String()
		spanName = "robot." + strings.ToLower(step.Kind)
	}
	ctx, span := r.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.Int("script.line", line.Number)))
	defer span.End()

	if err != nil {
		step.Outcome = journal.OutcomeIgnored
		step.Reason = err.Error()
		r.logf("line %d: %q ignored: %v", line.Number, line.Text, err)
	} else {
		report, err := r.robot.Apply(cmd)
		switch {
		case err != nil:
			step.Outcome = journal.OutcomeRejected
			step.Reason = err.Error()
			r.logf("line %d: %s rejected: %v", line.Number, cmd, err)
		default:
			step.Outcome = journal.OutcomeApplied
			step.Report = report
			if report != "" {
				if _, err := fmt.Fprintln(out, report); err != nil {
					span.SetStatus(codes.Error, err.Error())
					return step, fmt.Errorf("write report: %w", err)
				}
			}
		}
	}

	state := r.robot.State()
	step.X, step.Y, step.Placed = state.X, state.Y, state.Placed
	if state.Placed {
		step.Facing = r.robot.Ring().Name(state.Facing)
	}
	span.SetAttributes(attribute.String("robot.outcome", step.Outcome))

	if r.recorder != nil {
		if err := r.recorder.RecordStep(ctx, step); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return step, fmt.Errorf("record step: %w", err)
		}
	}
	return step, nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
