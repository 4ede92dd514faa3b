package solvers

import (
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-confdoc/logger"
)

const (
	defaultExpressionStart = "{{"
	defaultExpressionEnd   = "}}"
)

// EvalErrorHandler handles a failed evaluation. The original value is kept
// unless the handler changes it.
type EvalErrorHandler func(key string, expr string, err error, cfg *koanf.Koanf)

type expression struct {
	delimiters *delimiters
	evaluator  opts.Evaluator
	onError    EvalErrorHandler
}

// NewExpressionSolver evaluates values fully wrapped in start/end (default
// {{ }}) with the expr evaluator. Every other setting is visible to the
// expression by key, so {{ verbose > 1 }} reads the verbose setting.
func NewExpressionSolver(start, end string) ConfigSolver {
	return NewExpressionSolverWithEvaluator(start, end, nil, nil)
}

func NewExpressionSolverWithEvaluator(start, end string, eval opts.Evaluator, onErr EvalErrorHandler) ConfigSolver {
	if eval == nil {
		eval = opts.NewExprEvaluator()
	}
	if onErr == nil {
		onErr = OnEvalLeaveUnchanged()
	}
	if start == "" {
		start = defaultExpressionStart
	}
	if end == "" {
		end = defaultExpressionEnd
	}

	return &expression{
		delimiters: &delimiters{Start: start, End: end},
		evaluator:  eval,
		onError:    onErr,
	}
}

func (s expression) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return config
	}

	keys, values := stringValues(config)
	for _, key := range keys {
		expr, ok := s.fullMatch(values[key])
		if !ok {
			continue
		}
		expr = strings.TrimSpace(expr)
		result, err := s.evaluator.Evaluate(opts.RuleContext{Snapshot: config.Raw()}, expr)
		if err != nil {
			s.onError(key, expr, err, config)
			continue
		}
		config.Set(key, result)
	}

	return config
}

func (s expression) fullMatch(input string) (string, bool) {
	if !strings.HasPrefix(input, s.delimiters.Start) || !strings.HasSuffix(input, s.delimiters.End) {
		return "", false
	}
	start := len(s.delimiters.Start)
	end := len(input) - len(s.delimiters.End)
	if end <= start {
		return "", false
	}
	return input[start:end], true
}

// OnEvalLeaveUnchanged keeps the original value.
func OnEvalLeaveUnchanged() EvalErrorHandler {
	return func(string, string, error, *koanf.Koanf) {}
}

// OnEvalLog reports the failure and keeps the original value.
func OnEvalLog(l logger.Logger) EvalErrorHandler {
	l = logger.OrNop(l)
	return func(key string, expr string, err error, _ *koanf.Koanf) {
		l.Warn("expression for %s failed: %s (%v)", key, expr, err)
	}
}

// OnEvalRemove deletes the key.
func OnEvalRemove() EvalErrorHandler {
	return func(key string, _ string, _ error, cfg *koanf.Koanf) {
		if cfg != nil {
			cfg.Delete(key)
		}
	}
}
