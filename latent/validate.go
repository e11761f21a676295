package latent

import (
	"fmt"
	"math"
)

// Validate reports the first invalid field of o, wrapped in ErrOptions.
func (o Options) Validate() error {
	switch {
	case o.Restarts < 0:
		return fmt.Errorf("%w: restarts %d < 0", ErrOptions, o.Restarts)
	case o.MaxIters < 0:
		return fmt.Errorf("%w: max_iters %d < 0", ErrOptions, o.MaxIters)
	case math.IsNaN(o.Perturb) || o.Perturb < 0 || o.Perturb > 1:
		return fmt.Errorf("%w: perturb %v outside [0, 1]", ErrOptions, o.Perturb)
	case math.IsNaN(o.Eps) || math.IsInf(o.Eps, 0) || o.Eps < 0:
		return fmt.Errorf("%w: eps %v", ErrOptions, o.Eps)
	}

	return nil
}

// restarts returns the effective number of restarts.
func (o Options) restarts() int {
	if o.Restarts == 0 {
		return 1
	}

	return o.Restarts
}
