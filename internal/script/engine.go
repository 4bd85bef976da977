package script

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Engine executes Tengo rules. A rule receives an `input` map and must assign
// its result to an `output` variable; anything else it declares is ignored.
type Engine struct {
	limits Limits
}

// NewEngine creates an engine with default limits.
func NewEngine() *Engine {
	return &Engine{limits: DefaultLimits()}
}

// SetLimits replaces the engine's execution limits.
func (e *Engine) SetLimits(limits Limits) {
	e.limits = limits
}

// Execute runs a rule with the given input map and returns the value the rule
// assigned to `output`, converted to Go types.
func (e *Engine) Execute(ctx context.Context, rule *Rule, input map[string]interface{}) (interface{}, error) {
	start := time.Now()

	s := tengo.NewScript([]byte(rule.Content))
	s.SetImports(e.moduleMap())

	if input == nil {
		input = map[string]interface{}{}
	}
	if err := s.Add("input", input); err != nil {
		return nil, NewRuleError(ErrorTypeExecution, rule.Name, "failed to bind input", err)
	}
	if err := s.Add("output", nil); err != nil {
		return nil, NewRuleError(ErrorTypeExecution, rule.Name, "failed to bind output", err)
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, NewRuleError(ErrorTypeCompilation, rule.Name, "failed to compile rule", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.limits.MaxExecutionTime)
	defer cancel()

	// Run in a goroutine so a runaway rule hits the timeout instead of
	// blocking the loader, and a panic becomes an error.
	resultChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- fmt.Errorf("rule panic: %v", r)
			}
		}()
		resultChan <- compiled.Run()
	}()

	select {
	case err := <-resultChan:
		if err != nil {
			return nil, NewRuleError(ErrorTypeExecution, rule.Name, "rule execution failed", err)
		}
	case <-execCtx.Done():
		return nil, NewRuleError(ErrorTypeTimeout, rule.Name, "rule execution timed out", execCtx.Err())
	}

	out := compiled.Get("output")
	slog.Debug("rule executed",
		"rule", rule.Name,
		"source", rule.Source,
		"duration", time.Since(start),
	)
	return out.Value(), nil
}

func (e *Engine) moduleMap() *tengo.ModuleMap {
	modules := tengo.NewModuleMap()
	for _, name := range e.limits.AllowedModules {
		if module, exists := stdlib.BuiltinModules[name]; exists {
			modules.AddBuiltinModule(name, module)
		}
	}
	return modules
}
