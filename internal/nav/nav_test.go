package nav

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/Ckr1111/darlybot/internal/textnorm"
)

func snapshot(t *testing.T, titles ...string) *catalogue.Snapshot {
	t.Helper()
	table := catalogue.Table{Columns: []string{"title"}}
	for _, title := range titles {
		table.Rows = append(table.Rows, catalogue.Row{"title": title})
	}
	snap, err := catalogue.BuildSnapshot(table, shared.NewLogger(nil))
	if err != nil {
		t.Fatalf("failed to build snapshot: %v", err)
	}
	return snap
}

func entryAt(t *testing.T, snap *catalogue.Snapshot, index int) catalogue.Entry {
	t.Helper()
	entries := snap.Entries()
	if index >= len(entries) {
		t.Fatalf("no entry at index %d", index)
	}
	return entries[index]
}

func TestPlanDirectGroups(t *testing.T) {
	snap := snapshot(t,
		"Airwave",       // 0, anchor A
		"Area 7",        // 1
		"Bee Trap",      // 2, anchor B
		"Binary World",  // 3
		"Bye Bye Love",  // 4
		"Celestial Fox", // 5, anchor C
	)
	planner := NewPlanner(DefaultLayout())

	t.Run("anchor itself needs only the jump", func(t *testing.T) {
		plan, err := planner.Plan(snap, entryAt(t, snap, 2))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != "B" || plan.Offset != 0 {
			t.Errorf("got anchor %q offset %d, want B 0", plan.Anchor, plan.Offset)
		}
		if got := plan.Keys(); !reflect.DeepEqual(got, []string{"b"}) {
			t.Errorf("Keys() = %v, want [b]", got)
		}
	})

	t.Run("steps down within the group", func(t *testing.T) {
		plan, err := planner.Plan(snap, entryAt(t, snap, 3))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != "B" || plan.Offset != 1 {
			t.Errorf("got anchor %q offset %d, want B 1", plan.Anchor, plan.Offset)
		}
		if got := plan.Keys(); !reflect.DeepEqual(got, []string{"b", "down"}) {
			t.Errorf("Keys() = %v", got)
		}
	})

	t.Run("nearest anchor may step up", func(t *testing.T) {
		// Index 4 is one up-step from C (index 5) but two down from B.
		plan, err := planner.Plan(snap, entryAt(t, snap, 4))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != "C" || plan.Offset != -1 {
			t.Errorf("got anchor %q offset %d, want C -1", plan.Anchor, plan.Offset)
		}
		if got := plan.Keys(); !reflect.DeepEqual(got, []string{"c", "up"}) {
			t.Errorf("Keys() = %v", got)
		}
	})

	t.Run("own group wins distance ties", func(t *testing.T) {
		// Index 1 is distance 1 from both A (0) and B (2); A is its own
		// group and wins the tie.
		plan, err := planner.Plan(snap, entryAt(t, snap, 1))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != "A" || plan.Offset != 1 {
			t.Errorf("got anchor %q offset %d, want A 1", plan.Anchor, plan.Offset)
		}
	})
}

func TestPlanBridgedGroups(t *testing.T) {
	t.Run("hangul block after letters", func(t *testing.T) {
		snap := snapshot(t,
			"Oblivion",  // 0, anchor O
			"바람에게 부탁해", // 1, anchor hangul
			"비상",        // 2
		)
		plan, err := NewPlanner(DefaultLayout()).Plan(snap, entryAt(t, snap, 2))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != "O" || plan.Offset != 2 {
			t.Errorf("got anchor %q offset %d, want O 2", plan.Anchor, plan.Offset)
		}
	})

	t.Run("hangul block before letters steps up", func(t *testing.T) {
		snap := snapshot(t,
			"바람에게 부탁해", // 0, anchor hangul
			"비상",        // 1
			"Airwave",   // 2, anchor A
		)
		plan, err := NewPlanner(DefaultLayout()).Plan(snap, entryAt(t, snap, 0))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != "A" || plan.Offset != -2 {
			t.Errorf("got anchor %q offset %d, want A -2", plan.Anchor, plan.Offset)
		}
		if got := plan.Keys(); !reflect.DeepEqual(got, []string{"a", "up", "up"}) {
			t.Errorf("Keys() = %v", got)
		}
	})

	t.Run("extra direct key removes the bridge", func(t *testing.T) {
		snap := snapshot(t,
			"Oblivion",  // 0
			"바람에게 부탁해", // 1
			"비상",        // 2
		)
		layout := DefaultLayout().WithDirectKey(textnorm.KeyHangul)
		plan, err := NewPlanner(layout).Plan(snap, entryAt(t, snap, 2))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Anchor != textnorm.KeyHangul || plan.Offset != 1 {
			t.Errorf("got anchor %q offset %d, want hangul 1", plan.Anchor, plan.Offset)
		}
	})
}

func TestPlanForwardOnly(t *testing.T) {
	snap := snapshot(t,
		"바람에게 부탁해", // 0, hangul before any letter anchor
		"Airwave",   // 1, anchor A
		"Bee Trap",  // 2, anchor B
		"Bye Bye",   // 3
	)
	planner := NewPlanner(ForwardOnlyLayout())

	t.Run("bridges only downward", func(t *testing.T) {
		plan, err := planner.Plan(snap, entryAt(t, snap, 3))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if plan.Offset < 0 {
			t.Errorf("forward-only layout produced negative offset %d", plan.Offset)
		}
		if plan.Anchor != "B" || plan.Offset != 1 {
			t.Errorf("got anchor %q offset %d, want B 1", plan.Anchor, plan.Offset)
		}
	})

	t.Run("unreachable group fails", func(t *testing.T) {
		_, err := planner.Plan(snap, entryAt(t, snap, 0))
		var noAnchor *NoAnchorError
		if !errors.As(err, &noAnchor) {
			t.Fatalf("expected NoAnchorError, got %v", err)
		}
		if !errors.Is(err, shared.ErrNoAnchor) {
			t.Error("expected NoAnchorError to unwrap to ErrNoAnchor")
		}
		if noAnchor.Key != textnorm.KeyHangul {
			t.Errorf("got key %q, want hangul", noAnchor.Key)
		}
	})

	t.Run("reset shortcut rescues leading entries", func(t *testing.T) {
		layout := ForwardOnlyLayout()
		layout.HasReset = true
		plan, err := NewPlanner(layout).Plan(snap, entryAt(t, snap, 0))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if got := plan.Keys(); !reflect.DeepEqual(got, []string{"home"}) {
			t.Errorf("Keys() = %v, want [home]", got)
		}
	})
}

func TestPlanNoAnchorsAtAll(t *testing.T) {
	snap := snapshot(t, "바람에게 부탁해", "空の記憶")

	t.Run("without reset", func(t *testing.T) {
		_, err := NewPlanner(DefaultLayout()).Plan(snap, entryAt(t, snap, 1))
		if !errors.Is(err, shared.ErrNoAnchor) {
			t.Errorf("expected ErrNoAnchor, got %v", err)
		}
	})

	t.Run("with reset", func(t *testing.T) {
		layout := DefaultLayout()
		layout.HasReset = true
		plan, err := NewPlanner(layout).Plan(snap, entryAt(t, snap, 1))
		if err != nil {
			t.Fatalf("Plan returned error: %v", err)
		}
		if got := plan.Keys(); !reflect.DeepEqual(got, []string{"home", "down"}) {
			t.Errorf("Keys() = %v, want [home down]", got)
		}
	})
}

func TestActionKeyName(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{"jump letter", Action{Kind: ActionJump, Key: "Q"}, "q"},
		{"step down", Action{Kind: ActionStep, Direction: StepDown}, "down"},
		{"step up", Action{Kind: ActionStep, Direction: StepUp}, "up"},
		{"reset", Action{Kind: ActionReset}, "home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.KeyName(); got != tt.want {
				t.Errorf("KeyName() = %q, want %q", got, tt.want)
			}
		})
	}
}
