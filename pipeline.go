package particlesim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/internal/align"
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/scratch"
	"github.com/gekko3d/particlesim/simevent"
)

// DefaultMaxEventsPerStep bounds simulate_with_max_n_events's sub-step
// loop per block per step. The source caps this at 10 without
// documenting why; StepDescription.MaxEventsPerBlock lets a host raise
// or lower it per step (spec.md §4.4, Open Questions).
const DefaultMaxEventsPerStep = 10

// simulateBlock advances every active particle in particles from
// wherever it currently stands to endTime: build offsets from the
// integrator, then either bulk-apply them (the type has no events) or
// run the event-interception loop and apply what's left over for
// particles that survive to the sub-step cap (spec.md §4.4 simulate_block).
func simulateBlock(particles pstore.ParticleSet, remainingDurations []float32, endTime float64, td ParticleTypeDescription, allocator *pstore.ParticleAllocator, arrays *scratch.ArrayAllocator, maxEvents int) {
	if particles.Size() == 0 {
		return
	}
	block := particles.Block()
	offsetInfo := td.Integrator.OffsetInfo()
	offsetsCore := attrs.NewArraysCore(offsetInfo, block.Capacity())
	offsets := offsetsCore.SliceAll()

	td.Integrator.Integrate(&simevent.IntegratorInterface{
		Particles:          particles,
		RemainingDurations: remainingDurations,
		Offsets:            offsets,
		Arrays:             arrays,
	})

	if len(td.Events) == 0 {
		applyRemainingOffsets(block.SliceAll(), offsets, particles)
		return
	}

	bestTF := arrays.AllocateFloat(block.Capacity())
	defer bestTF.Release()
	nextEvent := arrays.AllocateUint(block.Capacity())
	defer nextEvent.Release()

	storages := make([]*simevent.EventStorage, len(td.Events))
	var handles []scratch.ByteHandle
	for i, ev := range td.Events {
		size := ev.StorageSize()
		if size == 0 {
			continue
		}
		h := arrays.AllocateBytes(block.Capacity() * size)
		handles = append(handles, h)
		storages[i] = simevent.NewEventStorage(h.Bytes, size)
	}
	defer func() {
		for _, h := range handles {
			h.Release()
		}
	}()

	remaining := particles
	for i := 0; i < maxEvents && remaining.Size() > 0; i++ {
		remaining = simulateToNextEvent(remaining, offsets, remainingDurations, endTime, td.Events, storages, bestTF.Values, nextEvent.Values, allocator, arrays)
	}
	if remaining.Size() > 0 {
		applyRemainingOffsets(block.SliceAll(), offsets, remaining)
	}
}

// simulateToNextEvent is one sub-step: filter every event in declared
// order, forward every particle by its own time factor, shrink offsets
// and remaining durations for particles an event claimed, execute each
// event on the particles it won, and return the event particles still
// alive with time left to simulate (spec.md §4.4).
func simulateToNextEvent(particles pstore.ParticleSet, offsets attrs.Arrays, remainingDurations []float32, endTime float64, events []simevent.Event, storages []*simevent.EventStorage, bestTF []float32, nextEvent []uint32, allocator *pstore.ParticleAllocator, arrays *scratch.ArrayAllocator) pstore.ParticleSet {
	round := simevent.NewFilterRound(particles, offsets, remainingDurations, endTime, bestTF, nextEvent)
	for i, ev := range events {
		ev.Filter(round.BeginEvent(i, storages[i]))
	}

	block := particles.Block()
	all := block.SliceAll()
	float3Names := offsets.Info().Float3Attributes()

	// Forward: every particle advances by its own time factor, event
	// particles and pass-through particles (tf == 1.0) alike.
	for _, pindex := range particles.Indices() {
		tf := round.BestTimeFactor(pindex)
		for _, name := range float3Names {
			d := offsets.GetFloat3(name)[pindex]
			col := all.GetFloat3(name)
			col[pindex] = col[pindex].Add(d.Mul(tf))
		}
	}

	// Shrink offsets/remaining durations for event particles only, and
	// bucket them by the event that claimed them, preserving declared
	// event order for the execute pass below.
	groups := make([][]int, len(events))
	var eventParticles []int
	for _, pindex := range particles.Indices() {
		idx := round.NextEventIndex(pindex)
		if idx < 0 {
			continue
		}
		keep := 1 - round.BestTimeFactor(pindex)
		for _, name := range float3Names {
			col := offsets.GetFloat3(name)
			col[pindex] = col[pindex].Mul(keep)
		}
		remainingDurations[pindex] *= keep
		groups[idx] = append(groups[idx], pindex)
		eventParticles = append(eventParticles, pindex)
	}

	for idx, group := range groups {
		if len(group) == 0 {
			continue
		}
		events[idx].Execute(&simevent.ExecuteInterface{
			Particles:          pstore.NewParticleSet(block, group),
			EndTime:            endTime,
			RemainingDurations: remainingDurations,
			Offsets:            offsets,
			Storage:            storages[idx],
			Allocator:          allocator,
			Arrays:             arrays,
		})
	}

	killState := all.GetByte(attrs.KillStateAttr)
	unfinished := make([]int, 0, len(eventParticles))
	for _, pindex := range eventParticles {
		if killState[pindex] == 0 && round.BestTimeFactor(pindex) < 1.0 {
			unfinished = append(unfinished, pindex)
		}
	}
	return pstore.NewParticleSet(block, unfinished)
}

// applyRemainingOffsets implements values[p] += offsets[p] for every p
// in particles, across every float3 attribute the offsets describe. It
// takes the 4-wide unrolled fast path when particles form a contiguous
// run and both arrays are 16-byte aligned, falling back to a scalar
// per-index loop otherwise; both paths add in the same order, so
// results are identical up to no reassociation at all (spec.md §4.4,
// §9).
func applyRemainingOffsets(dst attrs.Arrays, offsets attrs.Arrays, particles pstore.ParticleSet) {
	if particles.Size() == 0 {
		return
	}
	contiguous, start := contiguousRange(particles)
	for _, name := range offsets.Info().Float3Attributes() {
		dstCol := dst.GetFloat3(name)
		offCol := offsets.GetFloat3(name)
		if contiguous && align.IsAligned(dstCol) && align.IsAligned(offCol) {
			applyFloat3RangeVectorized(dstCol, offCol, start, particles.Size())
			continue
		}
		for _, pindex := range particles.Indices() {
			dstCol[pindex] = dstCol[pindex].Add(offCol[pindex])
		}
	}
}

func contiguousRange(particles pstore.ParticleSet) (bool, int) {
	n := particles.Size()
	start := particles.ParticleIndex(0)
	for i := 1; i < n; i++ {
		if particles.ParticleIndex(i) != start+i {
			return false, 0
		}
	}
	return true, start
}

// applyFloat3RangeVectorized adds offsets into dst four elements at a
// time over [start, start+n), with a scalar tail for the remainder.
func applyFloat3RangeVectorized(dst, offsets []mgl32.Vec3, start, n int) {
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[start+i+0] = dst[start+i+0].Add(offsets[start+i+0])
		dst[start+i+1] = dst[start+i+1].Add(offsets[start+i+1])
		dst[start+i+2] = dst[start+i+2].Add(offsets[start+i+2])
		dst[start+i+3] = dst[start+i+3].Add(offsets[start+i+3])
	}
	for ; i < n; i++ {
		dst[start+i] = dst[start+i].Add(offsets[start+i])
	}
}
