// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"fmt"
	"math"
	"sort"

	"github.com/casbin/govaluate"
)

// applyDerived evaluates the descriptor's derived-parameter expressions
// against its base parameters and appends the results. Derived parameters
// let a descriptor declare values like peak throughput as arithmetic over
// core count and clock instead of baking in numbers that drift out of sync.
// Evaluation order is sorted by name so decoding is deterministic.
func applyDerived(params Parameters, derived map[string]string) (Parameters, error) {
	if len(derived) == 0 {
		return params, nil
	}
	env := make(map[string]interface{}, len(params))
	for _, p := range params {
		switch p.Value.Kind {
		case KindInt:
			env[p.Name] = float64(p.Value.Int)
		case KindFloat:
			env[p.Name] = p.Value.Flt
		case KindString:
			env[p.Name] = p.Value.Str
		case KindBool:
			env[p.Name] = p.Value.Bool
		}
	}
	names := make([]string, 0, len(derived))
	for name := range derived {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, exists := params.Get(name); exists {
			return nil, fmt.Errorf("%w: derived parameter %q collides with a base parameter",
				ErrMalformedDescriptor, name)
		}
		expr, err := govaluate.NewEvaluableExpression(derived[name])
		if err != nil {
			return nil, fmt.Errorf("%w: derived parameter %q: %v", ErrMalformedDescriptor, name, err)
		}
		result, err := expr.Evaluate(env)
		if err != nil {
			return nil, fmt.Errorf("%w: derived parameter %q: %v", ErrMalformedDescriptor, name, err)
		}
		f, ok := result.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: derived parameter %q: expression must be numeric, got %T",
				ErrMalformedDescriptor, name, result)
		}
		var v Value
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			v = IntValue(int64(f))
		} else {
			v = FloatValue(f)
		}
		params = append(params, Parameter{Name: name, Value: v})
		env[name] = f
	}
	return params, nil
}
