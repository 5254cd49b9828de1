package reload

// DecisionKind says how a detected change gets applied.
type DecisionKind uint8

const (
	// DecidePatch swaps named constructs in place, preserving globals.
	DecidePatch DecisionKind = iota
	// DecideFullReset discards the environment and rebuilds from scratch.
	DecideFullReset
)

func (k DecisionKind) String() string {
	if k == DecidePatch {
		return "patch"
	}
	return "full reset"
}

// Decision is the policy verdict plus the delta the patch path consumes.
type Decision struct {
	Kind  DecisionKind
	Delta Categorized
	// Reason names the rule that fired, for the diagnostic channel.
	Reason string
}

// Decide applies the reload policy, most conservative rule first. The policy
// never patches global state in place: only named constructs whose
// definitions are independently swappable.
func Decide(hasPrevious bool, delta Categorized) Decision {
	if !hasPrevious {
		return Decision{Kind: DecideFullReset, Reason: "first load"}
	}
	// правка setup инвалидирует всё накопленное состояние
	if delta.Events.Touches(SetupEvent) || delta.Methods.Touches(SetupEvent) {
		return Decision{Kind: DecideFullReset, Reason: "setup changed"}
	}
	if !delta.Globals.Empty() {
		return Decision{Kind: DecideFullReset, Reason: "top-level globals changed"}
	}
	return Decision{Kind: DecidePatch, Delta: delta, Reason: "named constructs only"}
}
