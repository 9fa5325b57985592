// Package security provides feature gating for optional API surfaces.
package security

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"tally/internal/core/tenant"
)

// Feature flag names.
const (
	FlagAuditHistory      = "audit_history"
	FlagMovementStatistic = "movement_statistics"
)

// FeatureFlagProvider provides feature flag evaluation.
type FeatureFlagProvider interface {
	// IsEnabled checks if the feature is enabled for the request context.
	IsEnabled(ctx context.Context, flag string) bool
}

// RuleFlags evaluates feature flags as CEL expressions over the request
// tenant. An expression like `tenant == "red" || privileged` enables a
// feature per business unit without a redeploy.
type RuleFlags struct {
	mu       sync.RWMutex
	env      *cel.Env
	programs map[string]cel.Program
	defaults map[string]bool
}

// NewRuleFlags creates a CEL-backed flag provider.
func NewRuleFlags() (*RuleFlags, error) {
	env, err := cel.NewEnv(
		cel.Variable("tenant", cel.StringType),
		cel.Variable("privileged", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}
	return &RuleFlags{
		env:      env,
		programs: make(map[string]cel.Program),
		defaults: make(map[string]bool),
	}, nil
}

// SetRule compiles and installs a CEL rule for a flag.
func (f *RuleFlags) SetRule(flag, expr string) error {
	ast, iss := f.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("compile rule for %q: %w", flag, iss.Err())
	}
	prg, err := f.env.Program(ast)
	if err != nil {
		return fmt.Errorf("build program for %q: %w", flag, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.programs[flag] = prg
	return nil
}

// SetDefault sets the value used when no rule is installed for a flag.
func (f *RuleFlags) SetDefault(flag string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaults[flag] = enabled
}

// IsEnabled evaluates the flag's rule against the request tenant.
// Flags without a rule fall back to their default; evaluation errors
// disable the flag.
func (f *RuleFlags) IsEnabled(ctx context.Context, flag string) bool {
	f.mu.RLock()
	prg, hasRule := f.programs[flag]
	def := f.defaults[flag]
	f.mu.RUnlock()

	if !hasRule {
		return def
	}

	t, err := tenant.FromContext(ctx)
	if err != nil {
		t = tenant.Default
	}

	out, _, err := prg.Eval(map[string]any{
		"tenant":     t.String(),
		"privileged": t.IsPrivileged(),
	})
	if err != nil {
		return false
	}
	enabled, ok := out.Value().(bool)
	return ok && enabled
}

var _ FeatureFlagProvider = (*RuleFlags)(nil)
