package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ExecuteDerivesValue(t *testing.T) {
	engine := NewEngine()

	rule := &Rule{
		Name: "years_active",
		Content: `
current := input.current_year
founded := input.founded
output = current - founded
`,
		Source: SourceEmbedded,
	}

	out, err := engine.Execute(context.Background(), rule, map[string]interface{}{
		"current_year": 2026,
		"founded":      2014,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), out)
}

func TestEngine_ExecuteWithStdlibModules(t *testing.T) {
	engine := NewEngine()

	rule := &Rule{
		Name: "attribution",
		Content: `
fmt := import("fmt")
output = fmt.sprintf("%s, %s", input.author, input.role)
`,
		Source: SourceEmbedded,
	}

	out, err := engine.Execute(context.Background(), rule, map[string]interface{}{
		"author": "Maya Lindqvist",
		"role":   "CTO, Fernwood Systems",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maya Lindqvist, CTO, Fernwood Systems", out)
}

func TestEngine_CompilationError(t *testing.T) {
	engine := NewEngine()

	rule := &Rule{Name: "broken", Content: `output = := nonsense`}
	_, err := engine.Execute(context.Background(), rule, nil)
	require.Error(t, err)

	var ruleErr *RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, ErrorTypeCompilation, ruleErr.Type)
	assert.Equal(t, "broken", ruleErr.Rule)
}

func TestEngine_Timeout(t *testing.T) {
	engine := NewEngine()
	engine.SetLimits(Limits{
		MaxExecutionTime: 50 * time.Millisecond,
		AllowedModules:   []string{"fmt"},
	})

	rule := &Rule{
		Name:    "spin",
		Content: `for i := 0; true; i++ {}`,
	}

	_, err := engine.Execute(context.Background(), rule, nil)
	require.Error(t, err)

	var ruleErr *RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, ErrorTypeTimeout, ruleErr.Type)
}

func TestEngine_DisallowedModule(t *testing.T) {
	engine := NewEngine()
	engine.SetLimits(Limits{
		MaxExecutionTime: time.Second,
		AllowedModules:   []string{"fmt"},
	})

	rule := &Rule{
		Name:    "wants_os",
		Content: `os := import("os"); output = 1`,
	}

	_, err := engine.Execute(context.Background(), rule, nil)
	require.Error(t, err)
}

func TestEngine_NilInputIsEmptyMap(t *testing.T) {
	engine := NewEngine()

	rule := &Rule{Name: "count", Content: `output = len(input)`}
	out, err := engine.Execute(context.Background(), rule, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out)
}
