// Package lifecycle implements the per-asset-class position state
// machines and the primitive-instruction sum type that bridges business
// events to ledger transaction builders.
package lifecycle

import "github.com/withobsrvr/attestor/result"

// PositionStatus is a position's place in its lifecycle.
type PositionStatus int

const (
	Proposed PositionStatus = iota
	Formed
	Settled
	Cancelled
	Closed
)

func (s PositionStatus) String() string {
	switch s {
	case Proposed:
		return "PROPOSED"
	case Formed:
		return "FORMED"
	case Settled:
		return "SETTLED"
	case Cancelled:
		return "CANCELLED"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// TransitionSet is a closed set of directed (from, to) edges. Transition
// sets are built once at package init and never mutated at runtime.
type TransitionSet map[PositionStatus]map[PositionStatus]bool

func newTransitionSet(edges [][2]PositionStatus) TransitionSet {
	ts := make(TransitionSet)
	for _, e := range edges {
		if ts[e[0]] == nil {
			ts[e[0]] = make(map[PositionStatus]bool)
		}
		ts[e[0]][e[1]] = true
	}
	return ts
}

// CheckTransition reports whether (from, to) is an allowed edge in
// transitions, returning an IllegalTransition error carrying both state
// labels otherwise.
func CheckTransition(from, to PositionStatus, transitions TransitionSet) error {
	if transitions[from][to] {
		return nil
	}
	return result.NewIllegalTransition(from.String(), to.String())
}

// standardLifecycle is the common PROPOSED -> FORMED -> SETTLED -> CLOSED
// shape with PROPOSED/FORMED -> CANCELLED alternates, shared by every
// asset class whose lifecycle doesn't diverge from it.
func standardLifecycle() [][2]PositionStatus {
	return [][2]PositionStatus{
		{Proposed, Formed},
		{Proposed, Cancelled},
		{Formed, Settled},
		{Formed, Cancelled},
		{Settled, Closed},
	}
}

// EquityTransitions is the standard lifecycle unmodified.
var EquityTransitions = newTransitionSet(standardLifecycle())

// DerivativeTransitions extends the standard lifecycle with SETTLED
// remaining open across margin/exercise events until explicitly closed
// — represented here as the same standard edges, since those events are
// modeled as ledger transactions rather than status transitions.
var DerivativeTransitions = newTransitionSet(standardLifecycle())

// FXTransitions matches the standard lifecycle; NDF cash settlement and
// spot/forward physical settlement both land on SETTLED before CLOSED.
var FXTransitions = newTransitionSet(standardLifecycle())

// IRSTransitions extends the standard lifecycle: a FORMED swap may remain
// in SETTLED across many periodic cashflow fixings before reaching
// CLOSED at maturity, so SETTLED -> SETTLED is a permitted self-edge for
// "another cashflow happened, lifecycle status unchanged" events.
var IRSTransitions = newTransitionSet(append(standardLifecycle(), [2]PositionStatus{Settled, Settled}))

// CDSTransitions extends the standard lifecycle with a direct
// FORMED -> CLOSED edge for a full credit event, which closes the
// position without first passing through SETTLED.
var CDSTransitions = newTransitionSet(append(standardLifecycle(), [2]PositionStatus{Formed, Closed}))

// SwaptionTransitions matches the standard lifecycle: premium forms the
// position, exercise (physical or cash) settles it, expiry without
// exercise cancels it.
var SwaptionTransitions = newTransitionSet(append(standardLifecycle(), [2]PositionStatus{Formed, Cancelled}))
