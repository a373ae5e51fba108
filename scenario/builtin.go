package scenario

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/simevent"
)

// constantOffsetIntegrator sets the offset of a single float3 attribute
// to velocity*remainingDuration, the registry-driven equivalent of
// the constant-velocity integrator used throughout the core's own
// tests.
type constantOffsetIntegrator struct {
	attribute string
	velocity  mgl32.Vec3
}

func (c constantOffsetIntegrator) OffsetInfo() attrs.Info {
	return attrs.NewInfo(nil, nil, []string{c.attribute})
}

func (c constantOffsetIntegrator) Integrate(in *simevent.IntegratorInterface) {
	col := in.Offsets.GetFloat3(c.attribute)
	for _, pindex := range in.Particles.Indices() {
		col[pindex] = c.velocity.Mul(in.RemainingDurations[pindex])
	}
}

// gravityIntegrator is explicit (forward) Euler over "Position"/"Velocity":
// velocity accumulates a constant acceleration, position advances by
// the velocity already on the particle. It reads "Velocity" directly
// off the block rather than through the offsets view, since the offset
// it produces for "Position" depends on the value "Velocity" already
// holds at the start of the sub-step, not on any other event's offset.
type gravityIntegrator struct {
	gravity mgl32.Vec3
}

func (g gravityIntegrator) OffsetInfo() attrs.Info {
	return attrs.NewInfo(nil, nil, []string{"Position", "Velocity"})
}

func (g gravityIntegrator) Integrate(in *simevent.IntegratorInterface) {
	velocity := in.Block().SliceAll().GetFloat3("Velocity")
	posOffset := in.Offsets.GetFloat3("Position")
	velOffset := in.Offsets.GetFloat3("Velocity")
	for _, pindex := range in.Particles.Indices() {
		dt := in.RemainingDurations[pindex]
		posOffset[pindex] = velocity[pindex].Mul(dt)
		velOffset[pindex] = g.gravity.Mul(dt)
	}
}

// killAfterAgeEvent kills a particle once EndTime()-BirthTime reaches
// age, intercepting the sub-step at the exact time factor that age is
// crossed rather than waiting for the step boundary.
type killAfterAgeEvent struct {
	age float32
}

func (killAfterAgeEvent) Attributes() attrs.Info { return attrs.NewInfo(nil, nil, nil) }

func (killAfterAgeEvent) StorageSize() int { return 0 }

func (e killAfterAgeEvent) Filter(f *simevent.FilterInterface) {
	birth := f.Particles().Block().SliceAll().GetFloat(attrs.BirthTimeAttr)
	for _, pindex := range f.Particles().Indices() {
		remaining := f.RemainingDuration(pindex)
		if remaining <= 0 {
			continue
		}
		currentTime := f.EndTime() - float64(remaining)
		triggerAt := float64(birth[pindex]) + float64(e.age)
		if triggerAt > f.EndTime() {
			continue
		}
		tf := float32(0)
		if triggerAt > currentTime {
			tf = float32((triggerAt - currentTime) / float64(remaining))
		}
		if tf <= f.BestTimeFactor(pindex) {
			f.Trigger(pindex, tf)
		}
	}
}

func (killAfterAgeEvent) Execute(e *simevent.ExecuteInterface) {
	for i := 0; i < e.Particles.Size(); i++ {
		e.Kill(e.Particles.ParticleIndex(i))
	}
}

// pointEmitter births one particle at position for every absolute time
// in times, the registry-driven equivalent of the core's own
// timed-emitter test double.
type pointEmitter struct {
	typeName string
	position mgl32.Vec3
	times    []float64
}

func (e pointEmitter) Emit(em *simevent.EmitterInterface) {
	slots := em.Allocator.Request(e.typeName, len(e.times))
	next := 0
	for _, slot := range slots {
		all := slot.Block.SliceAll()
		pos := all.GetFloat3("Position")
		birth := all.GetFloat(attrs.BirthTimeAttr)
		for r := 0; r < slot.Length; r++ {
			pindex := slot.Start + r
			pos[pindex] = e.position
			birth[pindex] = float32(e.times[next])
			next++
		}
	}
}
