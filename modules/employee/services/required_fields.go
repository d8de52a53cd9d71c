package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

// RequiredFieldRule names a field and the CEL expression, over `row`, that
// holds when the field is filled in.
type RequiredFieldRule struct {
	Field string `yaml:"field" json:"field"`
	Expr  string `yaml:"expr" json:"expr"`
}

var DefaultRequiredFieldRules = []RequiredFieldRule{
	{Field: "employee_id", Expr: "row.employee_id > 0"},
	{Field: "first_name", Expr: "row.first_name != ''"},
	{Field: "department", Expr: "row.department != ''"},
}

var newRequiredFieldsCELEnv = func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)))
}

type compiledRule struct {
	field string
	prg   cel.Program
}

type RequiredFieldValidator struct {
	rules []compiledRule
}

func NewRequiredFieldValidator(rules []RequiredFieldRule) (*RequiredFieldValidator, error) {
	env, err := newRequiredFieldsCELEnv()
	if err != nil {
		return nil, err
	}
	v := &RequiredFieldValidator{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		field := strings.TrimSpace(r.Field)
		expr := strings.TrimSpace(r.Expr)
		if field == "" || expr == "" {
			return nil, errors.New("required field rule: field and expr are required")
		}
		ast, iss := env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("required field rule %s: %w", field, iss.Err())
		}
		if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
			return nil, fmt.Errorf("required field rule %s: expr must be bool", field)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("required field rule %s: %w", field, err)
		}
		v.rules = append(v.rules, compiledRule{field: field, prg: prg})
	}
	return v, nil
}

// Missing returns the fields whose rule does not hold for e, in rule order.
func (v *RequiredFieldValidator) Missing(e types.Employee) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	vars := map[string]any{"row": rowVars(e)}
	var missing []string
	for _, r := range v.rules {
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("required field rule %s: %w", r.field, err)
		}
		ok, isBool := out.Value().(bool)
		if !isBool {
			return nil, fmt.Errorf("required field rule %s: non-bool result", r.field)
		}
		if !ok {
			missing = append(missing, r.field)
		}
	}
	return missing, nil
}

func (v *RequiredFieldValidator) Check(e types.Employee) error {
	missing, err := v.Missing(e)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &RequiredFieldsError{EmployeeID: e.EmployeeID, Fields: missing}
	}
	return nil
}

func rowVars(e types.Employee) map[string]any {
	return map[string]any{
		"employee_id": int64(e.EmployeeID),
		"first_name":  strings.TrimSpace(e.FirstName),
		"last_name":   strings.TrimSpace(e.LastName),
		"department":  strings.TrimSpace(e.Department),
		"salary":      e.Salary,
		"skill_count": int64(len(e.Skills)),
	}
}
