package solvers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type warnRecorder struct {
	warnings []string
}

func (w *warnRecorder) Debug(string, ...any) {}
func (w *warnRecorder) Info(string, ...any)  {}
func (w *warnRecorder) Warn(format string, args ...any) {
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}
func (w *warnRecorder) Error(string, ...any) {}

func TestExpressionSolverEvaluatesFullMatch(t *testing.T) {
	k := loadValues(t, map[string]any{
		"verbose":  2,
		"package":  "nova",
		"debug":    "{{ verbose > 1 }}",
		"label":    `{{ package + "-docs" }}`,
		"sum":      "{{ 1 + 2 }}",
		"embedded": "prefix {{ 1 + 1 }}",
	})

	out := NewExpressionSolver("{{", "}}").Solve(k)

	assert.Equal(t, true, out.Get("debug"))
	assert.Equal(t, "nova-docs", out.Get("label"))
	assert.EqualValues(t, 3, out.Get("sum"))
	assert.Equal(t, "prefix {{ 1 + 1 }}", out.Get("embedded"))
}

func TestExpressionSolverLeaveUnchanged(t *testing.T) {
	k := loadValues(t, map[string]any{"bad": "{{ 1 + }}"})

	out := NewExpressionSolverWithEvaluator("{{", "}}", nil, OnEvalLeaveUnchanged()).Solve(k)

	assert.Equal(t, "{{ 1 + }}", out.Get("bad"))
}

func TestExpressionSolverRemove(t *testing.T) {
	k := loadValues(t, map[string]any{
		"bad": "{{ 1 + }}",
		"ok":  "{{ 1 + 1 }}",
	})

	out := NewExpressionSolverWithEvaluator("{{", "}}", nil, OnEvalRemove()).Solve(k)

	assert.False(t, out.Exists("bad"))
	assert.EqualValues(t, 2, out.Get("ok"))
}

func TestExpressionSolverLog(t *testing.T) {
	rec := &warnRecorder{}
	k := loadValues(t, map[string]any{"bad": "{{ 1 + }}"})

	NewExpressionSolverWithEvaluator("", "", nil, OnEvalLog(rec)).Solve(k)

	assert.Len(t, rec.warnings, 1)
	assert.Contains(t, rec.warnings[0], "bad")
}

func TestExpressionSolverEmptyBody(t *testing.T) {
	k := loadValues(t, map[string]any{"empty": "{{}}"})

	out := NewExpressionSolver("{{", "}}").Solve(k)

	assert.Equal(t, "{{}}", out.Get("empty"))
}
