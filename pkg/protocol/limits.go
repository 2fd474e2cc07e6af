package protocol

import "errors"

// MaxFragmentDepth limits how many levels of nested fragments are
// expanded when encoding and accepted when decoding.
const MaxFragmentDepth = 64

// ErrMaxDepthExceeded is returned when a document nests fragments deeper
// than the decoder allows.
var ErrMaxDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

// DepthLimits configures depth limits for encoding and decoding.
type DepthLimits struct {
	// FragmentDepth is the maximum fragment nesting depth.
	FragmentDepth int
}

// DefaultDepthLimits returns the default depth limits.
func DefaultDepthLimits() *DepthLimits {
	return &DepthLimits{FragmentDepth: MaxFragmentDepth}
}

func (l *DepthLimits) fragmentDepth() int {
	if l == nil || l.FragmentDepth <= 0 {
		return MaxFragmentDepth
	}
	return l.FragmentDepth
}

// depthContext tracks the current nesting depth for recursive structures.
type depthContext struct {
	current int
	max     int
}

func newDepthContext(max int) *depthContext {
	return &depthContext{max: max}
}

// enter increments the depth and returns an error if the limit would be exceeded.
// The depth is only incremented on success.
func (dc *depthContext) enter() error {
	if dc.current >= dc.max {
		return ErrMaxDepthExceeded
	}
	dc.current++
	return nil
}

func (dc *depthContext) leave() {
	dc.current--
}
