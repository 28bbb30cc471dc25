// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package planfile

import (
	"fmt"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
)

// Expression decodes an expression from its YAML value.
func Expression(v interface{}) (sql.Expression, error) {
	switch v := v.(type) {
	case nil:
		return expression.NewLiteral(nil), nil
	case string:
		return expression.NewSymbolReference(sql.Symbol(v)), nil
	case []interface{}:
		return nil, ErrInvalidPlanFile.New(fmt.Sprintf("expression %v is a list", v))
	case yaml.MapSlice:
		m := make(map[interface{}]interface{}, len(v))
		for _, item := range v {
			m[item.Key] = item.Value
		}
		if len(m) != len(v) {
			return nil, ErrInvalidPlanFile.New(fmt.Sprintf("expression %v has duplicate operators", v))
		}
		return operator(m)
	case map[interface{}]interface{}, map[string]interface{}:
		return operator(v)
	default:
		return literal(v)
	}
}

func literal(v interface{}) (sql.Expression, error) {
	switch v.(type) {
	case nil:
		return expression.NewLiteral(nil), nil
	case string:
		return expression.NewLiteral(v), nil
	case bool:
		return expression.NewLiteral(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil, ErrInvalidPlanFile.Wrap(err, err.Error())
		}
		return expression.NewLiteral(i), nil
	case float32, float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, ErrInvalidPlanFile.Wrap(err, err.Error())
		}
		return expression.NewLiteral(f), nil
	default:
		return nil, ErrInvalidPlanFile.New(fmt.Sprintf("unsupported literal %v of type %T", v, v))
	}
}

func operator(v interface{}) (sql.Expression, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, ErrInvalidPlanFile.Wrap(err, err.Error())
	}
	if len(m) != 1 {
		return nil, ErrInvalidPlanFile.New(fmt.Sprintf("expression %v must have exactly one operator", m))
	}

	for op, arg := range m {
		if op == "literal" {
			return literal(arg)
		}

		values, err := cast.ToSliceE(arg)
		if err != nil {
			return nil, ErrInvalidPlanFile.New(fmt.Sprintf("arguments of %s must be a list", op))
		}
		args := make([]sql.Expression, len(values))
		for i, a := range values {
			if args[i], err = Expression(a); err != nil {
				return nil, err
			}
		}

		switch op {
		case "eq", "neq", "gt", "lt":
			if len(args) != 2 {
				return nil, ErrInvalidPlanFile.New(fmt.Sprintf("%s takes 2 arguments, got %d", op, len(args)))
			}
			return comparison(op, args[0], args[1]), nil
		case "and", "or":
			if len(args) < 2 {
				return nil, ErrInvalidPlanFile.New(fmt.Sprintf("%s takes at least 2 arguments, got %d", op, len(args)))
			}
			result := args[0]
			for _, a := range args[1:] {
				if op == "and" {
					result = expression.NewAnd(result, a)
				} else {
					result = expression.NewOr(result, a)
				}
			}
			return result, nil
		default:
			return nil, ErrInvalidPlanFile.New("unknown operator " + op)
		}
	}
	panic("unreachable")
}

func comparison(op string, left, right sql.Expression) sql.Expression {
	switch op {
	case "eq":
		return expression.NewEquals(left, right)
	case "neq":
		return expression.NewNotEquals(left, right)
	case "gt":
		return expression.NewGreaterThan(left, right)
	default:
		return expression.NewLessThan(left, right)
	}
}
