package wgslgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/clue/log"

	"github.com/gogpu/wgslgen/ir"
	"github.com/gogpu/wgslgen/irfile"
	"github.com/gogpu/wgslgen/wgsl"
)

func loadTestdata(t *testing.T, name string) (*ir.Module, string) {
	t.Helper()
	m, err := irfile.Load(filepath.Join("irfile", "testdata", name+".yaml"))
	require.NoError(t, err)
	golden, err := os.ReadFile(filepath.Join("irfile", "testdata", name+".wgsl"))
	require.NoError(t, err)
	return m, string(golden)
}

// f64Module declares a global WGSL cannot represent.
func f64Module() *ir.Module {
	return &ir.Module{
		Types:           []ir.Type{{Inner: ir.F64}},
		GlobalVariables: []ir.GlobalVariable{{Name: "wide", Space: ir.SpacePrivate, Type: 0}},
	}
}

func TestCompile(t *testing.T) {
	for _, name := range []string{"compute", "vertex", "constants"} {
		t.Run(name, func(t *testing.T) {
			m, golden := loadTestdata(t, name)
			source, info, err := Compile(context.Background(), m, nil)
			require.NoError(t, err)
			assert.Equal(t, golden, source)
			require.NotNil(t, info)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Run("nil module", func(t *testing.T) {
		_, _, err := Compile(context.Background(), nil, nil)
		assert.True(t, wgsl.IsInvalidModule(err))
	})

	t.Run("validation", func(t *testing.T) {
		m := &ir.Module{
			Types:     []ir.Type{{Inner: ir.ArrayType{Base: 7}}},
			Functions: []ir.Function{{Name: "f"}, {Name: "f"}},
		}
		source, info, err := Compile(context.Background(), m, nil)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
		assert.Contains(t, err.Error(), "(and 1 more)")
		assert.Empty(t, source)
		assert.Nil(t, info)
	})

	t.Run("unrepresentable", func(t *testing.T) {
		_, _, err := Compile(context.Background(), f64Module(), nil)
		assert.True(t, wgsl.IsUnrepresentableType(err))
	})
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("fn f() {\n    return;\n}\n"))

	err := Check("fn f() {\n    let x = ;\n}\n")
	require.Error(t, err)
	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "line 2:13")
	assert.Contains(t, err.Error(), "let x = ;")
}

func TestCompileTargets(t *testing.T) {
	compute, golden := loadTestdata(t, "compute")
	var buf bytes.Buffer
	ctx := log.Context(context.Background(), log.WithFormat(log.FormatJSON), log.WithOutput(&buf))

	targets := []Target{
		{Name: "first", Module: compute},
		{Name: "bad", Module: f64Module()},
		{Module: compute, Options: &wgsl.Options{PointerWidth: 4}},
	}
	results, err := CompileTargets(ctx, targets, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "first", results[0].Name)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, golden, results[0].Source)

	assert.Equal(t, "bad", results[1].Name)
	assert.True(t, wgsl.IsUnrepresentableType(results[1].Err))
	assert.Empty(t, results[1].Source)
	assert.Nil(t, results[1].Info)

	assert.Equal(t, "target-2", results[2].Name)
	require.NoError(t, results[2].Err)
	assert.Equal(t, results[0].Source, results[2].Source)
	assert.NotEqual(t, results[0].Info.SessionID, results[2].Info.SessionID)

	assert.Contains(t, buf.String(), "target failed")
	assert.Contains(t, buf.String(), "bad")
}

func TestCompileTargets_SharedOptionsAreNotMutated(t *testing.T) {
	compute, _ := loadTestdata(t, "compute")
	options := &wgsl.Options{}
	targets := []Target{{Module: compute, Options: options}, {Module: compute, Options: options}}
	results, err := CompileTargets(context.Background(), targets, DefaultOptions())
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	assert.Zero(t, options.PointerWidth)
}

func TestCompileTargets_Canceled(t *testing.T) {
	compute, _ := loadTestdata(t, "compute")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := CompileTargets(ctx, []Target{{Module: compute}, {Module: compute}}, CompileOptions{Parallelism: 1})
	require.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestCompileTargets_WithoutValidation(t *testing.T) {
	// A switch with two default clauses is rejected by validation only.
	m := &ir.Module{
		Types: []ir.Type{{Inner: ir.I32}},
		Functions: []ir.Function{{
			Name:      "f",
			Arguments: []ir.FunctionArgument{{Name: "s", Type: 0}},
			Expressions: []ir.Expression{
				{Kind: ir.ExprFunctionArgument{Index: 0}},
			},
			Body: []ir.Statement{{Kind: ir.StmtSwitch{Selector: 0, Cases: []ir.SwitchCase{
				{Default: true},
				{Values: []ir.SwitchValue{ir.SwitchValueI32(1)}, Default: true},
			}}}},
		}},
	}
	results, err := CompileTargets(context.Background(), []Target{{Module: m}}, DefaultOptions())
	require.NoError(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, results[0].Err, &verr)

	results, err = CompileTargets(context.Background(), []Target{{Module: m}}, CompileOptions{})
	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.Contains(t, results[0].Source, "switch (s) {")
}

func TestCompileTargetsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	compute, golden := loadTestdata(t, "compute")

	properties.Property("results follow target order at any parallelism", prop.ForAll(
		func(count, parallelism int) bool {
			targets := make([]Target, count)
			for i := range targets {
				targets[i] = Target{Name: strconv.Itoa(i), Module: compute}
				if i%3 == 2 {
					targets[i].Module = f64Module()
				}
			}
			results, err := CompileTargets(context.Background(), targets, CompileOptions{Validate: true, Check: true, Parallelism: parallelism})
			if err != nil || len(results) != count {
				return false
			}
			for i, r := range results {
				if r.Name != strconv.Itoa(i) {
					return false
				}
				if i%3 == 2 {
					if !wgsl.IsUnrepresentableType(r.Err) {
						return false
					}
				} else if r.Err != nil || r.Source != golden {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 12),
		gen.IntRange(-1, 8),
	))

	properties.TestingRun(t)
}
