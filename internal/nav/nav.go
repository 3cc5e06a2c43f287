// package nav turns a resolved catalogue entry into the minimal key
// sequence that moves the in-game cursor onto it.
//
// The song list supports jumping straight to the first entry of a group
// (pressing its letter) plus single up/down steps. Which groups have a
// direct jump shortcut is a property of the game's UI, described by
// [Layout]; groups without one (hangul, hanja, digits, symbols under the
// stock layout) are bridged through the nearest reachable group.
package nav

import (
	"fmt"
	"sort"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/Ckr1111/darlybot/internal/textnorm"
)

// Direction of a single step action.
type Direction string

const (
	StepDown Direction = "down"
	StepUp   Direction = "up"
)

// ActionKind discriminates the members of the [Action] union.
type ActionKind string

const (
	ActionJump  ActionKind = "jump"
	ActionStep  ActionKind = "step"
	ActionReset ActionKind = "reset"
)

// Action is one discrete UI operation. Consumers execute actions strictly
// in order.
type Action struct {
	Kind      ActionKind        `json:"kind"`
	Key       textnorm.GroupKey `json:"key,omitempty"`
	Direction Direction         `json:"direction,omitempty"`
}

// KeyName returns the physical key a sender should press for this action.
func (a Action) KeyName() string {
	switch a.Kind {
	case ActionJump:
		if ch, ok := a.Key.JumpChar(); ok {
			return ch
		}
		return string(a.Key)
	case ActionStep:
		return string(a.Direction)
	case ActionReset:
		return "home"
	}
	return ""
}

// Plan is the computed route to one entry. Derived per request from the
// current snapshot, never persisted.
type Plan struct {
	Entry   catalogue.Entry
	Anchor  textnorm.GroupKey
	Offset  int
	Actions []Action
}

// Keys returns the plan as a flat key-name sequence for display.
func (p Plan) Keys() []string {
	keys := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		keys[i] = a.KeyName()
	}
	return keys
}

// NoAnchorError reports a group the planner could not route to.
type NoAnchorError struct {
	Key textnorm.GroupKey
}

func (e *NoAnchorError) Error() string {
	return fmt.Sprintf("no jump anchor reachable for group %q", e.Key)
}

func (e *NoAnchorError) Unwrap() error { return shared.ErrNoAnchor }

// Layout describes the jump shortcuts the target UI exposes.
//
// AllowBackward enables two behaviors: up-steps while bridging, and the
// nearest-anchor optimization, which may emit a jump to a *different*
// group's anchor when that reduces the total number of presses. Both change
// the emitted sequence, so layouts that cannot move upward must leave it
// off.
type Layout struct {
	directLetters bool
	extraDirect   map[textnorm.GroupKey]bool
	HasReset      bool
	AllowBackward bool
}

// DefaultLayout matches the stock song list: A–Z jump shortcuts, no reset
// shortcut, cursor can move both ways.
func DefaultLayout() Layout {
	return Layout{directLetters: true, AllowBackward: true}
}

// ForwardOnlyLayout is DefaultLayout without backward movement; offsets are
// then always ≥ 0 by construction.
func ForwardOnlyLayout() Layout {
	return Layout{directLetters: true}
}

// WithDirectKey marks an extra group key as directly jumpable.
func (l Layout) WithDirectKey(key textnorm.GroupKey) Layout {
	extra := map[textnorm.GroupKey]bool{key: true}
	for k, v := range l.extraDirect {
		extra[k] = v
	}
	l.extraDirect = extra
	return l
}

// Direct reports whether the UI has a jump shortcut for the key.
func (l Layout) Direct(key textnorm.GroupKey) bool {
	return (l.directLetters && key.IsLetter()) || l.extraDirect[key]
}

// Planner computes plans against a fixed layout. It holds no catalogue
// state; anchors are read from the snapshot on every call so a reload can
// never leave stale bridging behind.
type Planner struct {
	layout Layout
}

// NewPlanner creates a planner for the given layout.
func NewPlanner(layout Layout) *Planner {
	return &Planner{layout: layout}
}

// Plan computes the minimal action sequence reaching the entry.
func (p *Planner) Plan(snap *catalogue.Snapshot, entry catalogue.Entry) (Plan, error) {
	anchors := p.directAnchors(snap)

	if len(anchors) == 0 {
		if p.layout.HasReset {
			return p.resetPlan(entry), nil
		}
		return Plan{}, &NoAnchorError{Key: entry.Key}
	}

	if p.layout.AllowBackward {
		return p.nearestPlan(anchors, entry), nil
	}

	// Forward-only: use the entry's own anchor when its group is directly
	// jumpable, otherwise bridge from the closest preceding anchor.
	if p.layout.Direct(entry.Key) {
		if idx, ok := snap.Anchor(entry.Key); ok {
			return buildPlan(entry, entry.Key, entry.Index-idx), nil
		}
	}
	best := -1
	var bestKey textnorm.GroupKey
	for _, a := range anchors {
		if a.index <= entry.Index && a.index > best {
			best = a.index
			bestKey = a.key
		}
	}
	if best >= 0 {
		return buildPlan(entry, bestKey, entry.Index-best), nil
	}
	if p.layout.HasReset {
		return p.resetPlan(entry), nil
	}
	return Plan{}, &NoAnchorError{Key: entry.Key}
}

type anchor struct {
	key   textnorm.GroupKey
	index int
}

// directAnchors lists every snapshot anchor the layout can jump to,
// in deterministic key order.
func (p *Planner) directAnchors(snap *catalogue.Snapshot) []anchor {
	var anchors []anchor
	for _, key := range snap.AnchorKeys() {
		if !p.layout.Direct(key) {
			continue
		}
		if idx, ok := snap.Anchor(key); ok {
			anchors = append(anchors, anchor{key, idx})
		}
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].key < anchors[j].key })
	return anchors
}

// nearestPlan picks the anchor minimizing |offset|, preferring the entry's
// own group on a tie so the emitted sequence stays predictable.
func (p *Planner) nearestPlan(anchors []anchor, entry catalogue.Entry) Plan {
	best := anchors[0]
	bestScore := score(anchors[0], entry)
	for _, a := range anchors[1:] {
		if s := score(a, entry); less(s, bestScore) {
			best, bestScore = a, s
		}
	}
	return buildPlan(entry, best.key, entry.Index-best.index)
}

type planScore struct {
	distance int
	foreign  int // 0 when the anchor belongs to the entry's own group
}

func score(a anchor, entry catalogue.Entry) planScore {
	distance := entry.Index - a.index
	if distance < 0 {
		distance = -distance
	}
	foreign := 1
	if a.key == entry.Key {
		foreign = 0
	}
	return planScore{distance, foreign}
}

func less(a, b planScore) bool {
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.foreign < b.foreign
}

func (p *Planner) resetPlan(entry catalogue.Entry) Plan {
	plan := Plan{Entry: entry, Offset: entry.Index}
	plan.Actions = append(plan.Actions, Action{Kind: ActionReset})
	for i := 0; i < entry.Index; i++ {
		plan.Actions = append(plan.Actions, Action{Kind: ActionStep, Direction: StepDown})
	}
	return plan
}

func buildPlan(entry catalogue.Entry, key textnorm.GroupKey, offset int) Plan {
	plan := Plan{Entry: entry, Anchor: key, Offset: offset}
	plan.Actions = append(plan.Actions, Action{Kind: ActionJump, Key: key})

	direction := StepDown
	steps := offset
	if offset < 0 {
		direction = StepUp
		steps = -offset
	}
	for i := 0; i < steps; i++ {
		plan.Actions = append(plan.Actions, Action{Kind: ActionStep, Direction: direction})
	}
	return plan
}
