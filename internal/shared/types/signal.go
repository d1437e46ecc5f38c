package types

import "fmt"

// SignalType identifies a passive interaction signal from the host environment
type SignalType string

const (
	SignalVisibility  SignalType = "visibility"
	SignalKeyPress    SignalType = "keypress"
	SignalPointerMove SignalType = "pointermove"
	SignalScroll      SignalType = "scroll"
	SignalNavigation  SignalType = "navigation"
)

// Signal is a closed tagged variant for incoming interaction signals.
// Unknown types are rejected at the boundary via Validate.
type Signal struct {
	Type SignalType `json:"type"`
	// Hidden applies to visibility signals: true when the tab became hidden
	Hidden bool `json:"hidden,omitempty"`
	// Internal applies to navigation signals: true for in-app view changes
	Internal bool `json:"internal,omitempty"`
}

// Validate rejects signals with unknown types
func (s Signal) Validate() error {
	switch s.Type {
	case SignalVisibility, SignalKeyPress, SignalPointerMove, SignalScroll, SignalNavigation:
		return nil
	default:
		return fmt.Errorf("unknown signal type: %q", s.Type)
	}
}
