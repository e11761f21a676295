package align

import (
	"fmt"

	"github.com/katalvlaran/structeval"
)

// MemoryMode selects how the DP table is stored.
type MemoryMode int

const (
	// FullMatrix keeps the whole table and supports ReturnPath.
	FullMatrix MemoryMode = iota

	// RollingArray keeps two rows. Totals only.
	RollingArray
)

// Options configures Solve.
type Options struct {
	// Window bounds |i-j| for matched pairs. Zero disables the band.
	Window int

	// ReturnPath requests the witnessing pairs. Requires FullMatrix.
	ReturnPath bool

	MemoryMode MemoryMode
}

// DefaultOptions returns unbanded full-matrix alignment with pairs.
func DefaultOptions() Options {
	return Options{Window: 0, ReturnPath: true, MemoryMode: FullMatrix}
}

var (
	// ErrPathNeedsMatrix is returned when ReturnPath is combined with RollingArray.
	ErrPathNeedsMatrix = fmt.Errorf("align: ReturnPath requires MemoryMode=FullMatrix: %w", structeval.ErrConfig)

	// ErrBadWindow is returned for a negative Window.
	ErrBadWindow = fmt.Errorf("align: window must be ≥ 0: %w", structeval.ErrConfig)

	// ErrBadMemoryMode is returned for an unknown MemoryMode.
	ErrBadMemoryMode = fmt.Errorf("align: unknown memory mode: %w", structeval.ErrConfig)
)

// Validate checks o.
func (o Options) Validate() error {
	if o.Window < 0 {
		return fmt.Errorf("%w: %d", ErrBadWindow, o.Window)
	}
	if o.MemoryMode != FullMatrix && o.MemoryMode != RollingArray {
		return fmt.Errorf("%w: %d", ErrBadMemoryMode, int(o.MemoryMode))
	}
	if o.ReturnPath && o.MemoryMode != FullMatrix {
		return ErrPathNeedsMatrix
	}

	return nil
}
