package input

// Kind identifies a pointer or scroll gesture step.
type Kind int

const (
	Press Kind = iota
	Move
	Release
	Scroll
)

// Event is a single pointer/scroll event delivered by a presenter.
// X and Y are surface coordinates for Press and Move; Delta is used by Scroll.
type Event struct {
	Kind  Kind
	X     float64
	Y     float64
	Delta float64
}

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Scroll:
		return "scroll"
	default:
		return "unknown"
	}
}
