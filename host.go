package particlesim

import "github.com/gekko3d/particlesim/pstore"

// FrameDriver is the seam between a per-frame host loop and the
// simulation core: it owns the state and logger, and turns a frame's
// dt into one Simulate call via a host-supplied StepDescription
// factory. Adapted from gekko's Module/Stage shape (mod_time.go's
// TimeModule installing one always-run system) but scoped down to this
// library's own needs — there is no entity/component world here for
// the reflection-based ECS App machinery to resolve against.
type FrameDriver struct {
	State   *pstore.State
	Logger  Logger
	StepFor func(dt float64) StepDescription
}

// NewFrameDriver returns a driver over state, building each step from
// stepFor. A nil logger falls back to NewNopLogger.
func NewFrameDriver(state *pstore.State, stepFor func(dt float64) StepDescription, logger Logger) *FrameDriver {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &FrameDriver{State: state, Logger: logger, StepFor: stepFor}
}

// Tick builds this frame's step description from dt and advances State
// by one step. A non-positive dt is a no-op, not an error: a paused
// host may still call Tick every frame.
func (d *FrameDriver) Tick(dt float64) (StepResult, error) {
	if dt <= 0 {
		return StepResult{}, nil
	}
	result, err := Simulate(d.State, d.StepFor(dt), d.Logger)
	if err != nil {
		d.Logger.Errorf("particlesim: frame tick rejected: %v", err)
		return result, err
	}
	d.Logger.Debugf("particlesim: frame tick: blocks=%d born=%d killed=%d", result.BlocksSimulated, result.ParticlesBorn, result.ParticlesKilled)
	return result, nil
}
