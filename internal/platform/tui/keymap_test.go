package tui

import (
	"testing"

	"github.com/vovakirdan/skyhop/internal/core"
)

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key    string
		want   core.Action
		isQuit bool
	}{
		{"a", core.ActionLeft, false},
		{"d", core.ActionRight, false},
		{"w", core.ActionUp, false},
		{" ", core.ActionUp, false},
		{"s", core.ActionDown, false},
		{"enter", core.ActionConfirm, false},
		{"esc", core.ActionBack, false},
		{"p", core.ActionPause, false},
		{"n", core.ActionRestart, false},
		{"r", core.ActionRegenerate, false},
		{"q", core.ActionQuit, true},
		{"ctrl+c", core.ActionQuit, true},
		{"x", core.ActionNone, false},
	}
	for _, tt := range tests {
		got, quit := km.MapKey(keyMsg(tt.key))
		if got != tt.want || quit != tt.isQuit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.key, got, quit, tt.want, tt.isQuit)
		}
	}
}

func TestIsCharge(t *testing.T) {
	for a := core.ActionNone; a <= core.ActionQuit; a++ {
		want := a == core.ActionLeft || a == core.ActionRight || a == core.ActionUp
		if IsCharge(a) != want {
			t.Errorf("IsCharge(%v) = %v", a, !want)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key  string
		want MenuAction
	}{
		{"k", MenuActionUp},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"esc", MenuActionBack},
		{"q", MenuActionQuit},
		{"z", MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(keyMsg(tt.key)); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
