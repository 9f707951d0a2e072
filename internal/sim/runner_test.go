package sim

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"toyrobot/internal/journal"
	"toyrobot/internal/robot"
)

func newTestRobot(t *testing.T, size int) *robot.Robot {
	t.Helper()
	grid, err := robot.NewGrid(size)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return robot.New(grid, nil)
}

func runScript(t *testing.T, script string) (string, Summary) {
	t.Helper()
	var out bytes.Buffer
	runner := NewRunner(newTestRobot(t, robot.DefaultGridSize), Config{})
	sum, err := runner.Run(context.Background(), strings.NewReader(script), &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), sum
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"move north", "PLACE 0,0,NORTH\nMOVE\nREPORT\n", "0,1,NORTH\n"},
		{"blocked at edge", "PLACE 0,0,SOUTH\nMOVE\nREPORT\n", "0,0,SOUTH\n"},
		{"move and turn", "PLACE 1,2,EAST\nMOVE\nMOVE\nLEFT\nMOVE\nREPORT\n", "3,3,NORTH\n"},
		{"never placed", "MOVE\nREPORT\n", ""},
		{"bad second place", "PLACE 1,2,EAST\nPLACE 5,5,NORTH\nREPORT\n", "1,2,EAST\n"},
		{"junk is skipped", "hello\nPLACE 2,2,WEST\nmove\nPLACE 1,2\nMOVE\nREPORT\n", "1,2,WEST\n"},
		{"several reports", "PLACE 0,0,EAST\nREPORT\nRIGHT\nREPORT\n", "0,0,EAST\n0,0,SOUTH\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := runScript(t, tt.script)
			if got != tt.want {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunSummary(t *testing.T) {
	_, sum := runScript(t, "MOVE\nPLACE 0,0,NORTH\n\nJUMP\nMOVE\nREPORT\nPLACE 9,9,NORTH\n")
	want := Summary{Lines: 6, Applied: 3, Rejected: 2, Ignored: 1, Reports: 1}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}
}

func TestRunSkipsOverlongLine(t *testing.T) {
	script := "PLACE 0,0,NORTH\n" + strings.Repeat("X", 70000) + "\nMOVE\nREPORT\n"
	got, sum := runScript(t, script)
	if got != "0,1,NORTH\n" {
		t.Fatalf("output = %q, want %q", got, "0,1,NORTH\n")
	}
	if sum.Ignored != 1 || sum.Applied != 3 {
		t.Fatalf("summary = %+v, want 3 applied and 1 ignored", sum)
	}
}

func TestRunVerboseLogsSkippedLines(t *testing.T) {
	var logs, out bytes.Buffer
	runner := NewRunner(newTestRobot(t, 5), Config{Verbose: true, Logger: log.New(&logs, "", 0)})
	if _, err := runner.Run(context.Background(), strings.NewReader("REPORT\nFLY\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"line 1: REPORT rejected", "line 2: \"FLY\" ignored"} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("logs = %q, want %q", logs.String(), want)
		}
	}
}

func TestRunQuietByDefault(t *testing.T) {
	var logs, out bytes.Buffer
	runner := NewRunner(newTestRobot(t, 5), Config{Logger: log.New(&logs, "", 0)})
	if _, err := runner.Run(context.Background(), strings.NewReader("REPORT\nFLY\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no logs, got %q", logs.String())
	}
}

type memRecorder struct {
	steps []journal.Step
	err   error
}

func (m *memRecorder) RecordStep(_ context.Context, step journal.Step) error {
	if m.err != nil {
		return m.err
	}
	m.steps = append(m.steps, step)
	return nil
}

func TestRunRecordsSteps(t *testing.T) {
	rec := &memRecorder{}
	runner := NewRunner(newTestRobot(t, 5), Config{Recorder: rec})
	var out bytes.Buffer
	if _, err := runner.Run(context.Background(), strings.NewReader("LEFT\nPLACE 1,1,NORTH\nWAVE\nREPORT\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []journal.Step{
		{Line: 1, Text: "LEFT", Kind: "LEFT", Outcome: journal.OutcomeRejected},
		{Line: 2, Text: "PLACE 1,1,NORTH", Kind: "PLACE", Outcome: journal.OutcomeApplied, X: 1, Y: 1, Facing: "NORTH", Placed: true},
		{Line: 3, Text: "WAVE", Outcome: journal.OutcomeIgnored, X: 1, Y: 1, Facing: "NORTH", Placed: true},
		{Line: 4, Text: "REPORT", Kind: "REPORT", Outcome: journal.OutcomeApplied, Report: "1,1,NORTH", X: 1, Y: 1, Facing: "NORTH", Placed: true},
	}
	if len(rec.steps) != len(want) {
		t.Fatalf("recorded %d steps, want %d", len(rec.steps), len(want))
	}
	for i := range want {
		got := rec.steps[i]
		got.Reason = ""
		if got != want[i] {
			t.Fatalf("step %d = %+v, want %+v", i, got, want[i])
		}
	}
	if rec.steps[0].Reason == "" || rec.steps[2].Reason == "" {
		t.Fatal("skipped steps should carry a reason")
	}
}

func TestRunStopsOnRecorderError(t *testing.T) {
	boom := errors.New("disk full")
	runner := NewRunner(newTestRobot(t, 5), Config{Recorder: &memRecorder{err: boom}})
	var out bytes.Buffer
	_, err := runner.Run(context.Background(), strings.NewReader("MOVE\n"), &out)
	if !errors.Is(err, boom) {
		t.Fatalf("run error = %v, want %v", err, boom)
	}
}

func TestRunHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := NewRunner(newTestRobot(t, 5), Config{})
	var out bytes.Buffer
	sum, err := runner.Run(ctx, strings.NewReader("PLACE 0,0,NORTH\nREPORT\n"), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run error = %v, want %v", err, context.Canceled)
	}
	if sum.Lines != 0 || out.Len() != 0 {
		t.Fatalf("expected nothing to run, got %+v and %q", sum, out.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRunReportsWriteFailure(t *testing.T) {
	runner := NewRunner(newTestRobot(t, 5), Config{})
	_, err := runner.Run(context.Background(), strings.NewReader("PLACE 0,0,NORTH\nREPORT\n"), failWriter{})
	if err == nil || !strings.Contains(err.Error(), "write report") {
		t.Fatalf("run error = %v, want write report failure", err)
	}
}

func TestDraw(t *testing.T) {
	r := newTestRobot(t, 3)
	var buf bytes.Buffer
	if err := Draw(&buf, r); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if want := ". . .\n. . .\n. . .\n"; buf.String() != want {
		t.Fatalf("unplaced draw = %q, want %q", buf.String(), want)
	}

	if err := r.Place(2, 1, "WEST"); err != nil {
		t.Fatalf("place: %v", err)
	}
	buf.Reset()
	if err := Draw(&buf, r); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if want := ". . .\n. . <\n. . .\n"; buf.String() != want {
		t.Fatalf("draw = %q, want %q", buf.String(), want)
	}

	_ = r.Right()
	buf.Reset()
	_ = Draw(&buf, r)
	if want := ". . .\n. . ^\n. . .\n"; buf.String() != want {
		t.Fatalf("draw = %q, want %q", buf.String(), want)
	}
}
