package scene

import (
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestNewScriptRule_Errors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"empty", "   "},
		{"syntax", "self.tag == "},
		{"unknown variable", "player.tag == \"hero\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewScriptRule(tt.expression); err == nil {
				t.Errorf("NewScriptRule(%q) should fail", tt.expression)
			}
		})
	}
}

func TestScriptRule_Eval(t *testing.T) {
	hero := NewObject("hero", "player", mgl64.Vec2{})
	slime := NewObject("enemy_slime", "enemy", mgl64.Vec2{})
	ghost := NewObject("ghost", "ghost", mgl64.Vec2{})

	tests := []struct {
		name        string
		expression  string
		self, other *Object
		want        bool
	}{
		{"tag match", `other.tag == "enemy"`, hero, slime, true},
		{"tag mismatch", `other.tag == "enemy"`, hero, ghost, false},
		{"both sides", `self.tag == "player" && other.tag != "ghost"`, hero, slime, true},
		{"text module", `text.has_prefix(other.name, "enemy_")`, hero, slime, true},
		{"text module miss", `text.has_prefix(other.name, "enemy_")`, slime, hero, false},
		{"truthy string", `other.name`, hero, slime, true},
		{"falsy string", `other.name`, hero, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewScriptRule(tt.expression)
			if err != nil {
				t.Fatal(err)
			}
			got, err := rule.Eval(tt.self, tt.other)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScriptRule_Reuse(t *testing.T) {
	rule, err := NewScriptRule(`self.name != other.name`)
	if err != nil {
		t.Fatal(err)
	}
	a := NewObject("a", "", mgl64.Vec2{})
	b := NewObject("b", "", mgl64.Vec2{})

	fn := rule.Rule()
	if !fn(a, b) || fn(a, a) || !fn(b, a) {
		t.Error("a compiled rule should give fresh results on every call")
	}
}

func TestScriptRule_RuntimeErrorPanics(t *testing.T) {
	rule, err := NewScriptRule(`self.name / 2`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rule.Eval(NewObject("a", "", mgl64.Vec2{}), nil); err == nil {
		t.Fatal("dividing a string should fail at run time")
	}

	defer func() {
		if recover() == nil {
			t.Error("Rule() should panic when the script fails")
		}
	}()
	rule.Rule()(NewObject("a", "", mgl64.Vec2{}), nil)
}

func TestScriptRule_InBridge(t *testing.T) {
	b := newTestBridge()
	addFloor(t, b)
	box := addBox(t, b, "box", "ghost")

	rule, err := NewScriptRule(`self.tag != "ghost"`)
	if err != nil {
		t.Fatal(err)
	}
	box.CollideRule = rule.Rule()

	for range 60 {
		b.Step(dt)
	}
	if box.Position.Y() < 1 {
		t.Errorf("ghost box at y=%v, should fall through the floor", box.Position.Y())
	}
	if _, ok := box.Body().Colliding.Find(actor.General, b.World.Bodies()[0].ID()); ok {
		t.Error("the ghost should no longer touch the floor")
	}
}
