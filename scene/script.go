package scene

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// scriptModules are the tengo standard modules a rule may import.
var scriptModules = []string{"math", "text"}

const scriptResult = "__result"

// ScriptRule is a Rule written as a tengo boolean expression over self and
// other, two maps holding the name and tag of each object:
//
//	other.tag != "ghost" && self.name != other.name
//
// Rules are evaluated by the step, one pair at a time.
type ScriptRule struct {
	Source string

	compiled *tengo.Compiled
}

// NewScriptRule compiles expression. The text module is available as text,
// math as math.
func NewScriptRule(expression string) (*ScriptRule, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty rule expression")
	}

	src := fmt.Sprintf("text := import(\"text\")\nmath := import(\"math\")\n%s := (%s)\n", scriptResult, expression)
	script := tengo.NewScript([]byte(src))
	_ = script.Add("self", map[string]any{})
	_ = script.Add("other", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(scriptModules...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expression, err)
	}
	return &ScriptRule{Source: expression, compiled: compiled}, nil
}

// Eval runs the rule for a pair. A result that is not a boolean is read with
// tengo's truthiness.
func (r *ScriptRule) Eval(self, other *Object) (bool, error) {
	if err := r.compiled.Set("self", scriptObject(self)); err != nil {
		return false, err
	}
	if err := r.compiled.Set("other", scriptObject(other)); err != nil {
		return false, err
	}
	if err := r.compiled.Run(); err != nil {
		return false, fmt.Errorf("run rule %q: %w", r.Source, err)
	}
	return r.compiled.Get(scriptResult).Bool(), nil
}

// Rule adapts the script to a Rule. A failing script panics out of the step.
func (r *ScriptRule) Rule() Rule {
	return func(self, other *Object) bool {
		ok, err := r.Eval(self, other)
		if err != nil {
			panic(err)
		}
		return ok
	}
}

func scriptObject(obj *Object) map[string]any {
	if obj == nil {
		return map[string]any{"name": "", "tag": ""}
	}
	return map[string]any{"name": obj.Name, "tag": obj.Tag}
}
