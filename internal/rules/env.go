// Package rules compiles combat policies written in CEL. A policy reads the
// state of a fight and names the action to take next.
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Registry manages the CEL environment policies are compiled in.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment with the fight variables and
// a roll(lo, hi) function backed by rollFunc.
func NewRegistry(rollFunc func(lo, hi int) int) (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("player", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("monster", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("ready", cel.MapType(cel.StringType, cel.BoolType)),
		cel.Variable("turn", cel.IntType),

		cel.Function("roll",
			cel.Overload("roll_int_int",
				[]*cel.Type{cel.IntType, cel.IntType},
				cel.IntType,
				cel.BinaryBinding(func(lo, hi ref.Val) ref.Val {
					l, ok1 := lo.(types.Int)
					h, ok2 := hi.(types.Int)
					if !ok1 || !ok2 {
						return types.NewErr("roll expects two ints")
					}
					return types.Int(rollFunc(int(l), int(h)))
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env}, nil
}

// Policy is a compiled expression that evaluates to an action name.
type Policy struct {
	expr string
	prg  cel.Program
}

// Compile checks expr and prepares it for evaluation. Expressions must
// produce a string.
func (r *Registry) Compile(expr string) (*Policy, error) {
	ast, iss := r.env.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	if out := ast.OutputType(); !out.IsExactType(cel.StringType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("policy must evaluate to an action name, not %s", out)
	}
	prg, err := r.env.Program(ast)
	if err != nil {
		return nil, err
	}
	return &Policy{expr: expr, prg: prg}, nil
}

func (p *Policy) String() string {
	return p.expr
}

// Eval runs the policy against a context built by Context.
func (p *Policy) Eval(vars map[string]any) (string, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return "", err
	}
	name, ok := out.Value().(string)
	if !ok {
		return "", fmt.Errorf("policy returned %v, not an action name", out.Value())
	}
	return name, nil
}
