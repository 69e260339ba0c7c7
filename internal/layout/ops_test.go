package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingDispatcher struct {
	calls  [][]string
	failOn string
}

func (r *recordingDispatcher) Dispatch(args ...string) error {
	r.calls = append(r.calls, append([]string(nil), args...))
	if len(args) > 0 && args[0] == r.failOn {
		return errors.New("boom")
	}
	return nil
}

func TestRestorePlan(t *testing.T) {
	plan := Restore("0xabc", 3)
	want := [][]string{
		{"movetoworkspace", "3,address:0xabc"},
		{"focuswindow", "address:0xabc"},
	}
	if diff := cmp.Diff(want, plan.Commands); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestHidePlan(t *testing.T) {
	plan := Hide("0xabc", "special:minimized")
	want := [][]string{{"movetoworkspacesilent", "special:minimized,address:0xabc"}}
	if diff := cmp.Diff(want, plan.Commands); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteStopsAtFirstError(t *testing.T) {
	d := &recordingDispatcher{failOn: "movetoworkspace"}
	err := Restore("0xabc", 2).Execute(d)
	if err == nil || !strings.Contains(err.Error(), "dispatch movetoworkspace 2,address:0xabc") {
		t.Fatalf("unexpected error %v", err)
	}
	if len(d.calls) != 1 {
		t.Fatalf("expected execution to stop after failure, got %d calls", len(d.calls))
	}
}

func TestExecuteAllContinuesAfterError(t *testing.T) {
	d := &recordingDispatcher{failOn: "movetoworkspace"}
	err := Restore("0xabc", 2).ExecuteAll(d)
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if len(d.calls) != 2 {
		t.Fatalf("expected both commands to run, got %d calls", len(d.calls))
	}
}
