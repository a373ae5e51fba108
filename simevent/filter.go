package simevent

import (
	"fmt"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/pstore"
)

// noEvent marks a particle index as not currently bound to any event.
const noEvent = ^uint32(0)

// FilterRound holds the bookkeeping shared by every event's Filter call
// within one sub-step: the best time factor seen so far per particle,
// and which event currently owns it. All slices are addressed by
// block-local particle index and sized to at least the block's
// capacity; NewFilterRound only resets the entries named by particles.
//
// Grounded on simulate.cpp's per-sub-step next_event_indices /
// time_factors_to_next_event bookkeeping.
type FilterRound struct {
	Particles          pstore.ParticleSet
	Offsets            attrs.Arrays
	RemainingDurations []float32
	EndTime            float64

	bestTF    []float32
	nextEvent []uint32
}

// NewFilterRound resets bestTF/nextEvent for every particle in
// particles and returns a round ready to drive each event's Filter in
// turn. bestTF and nextEvent are caller-owned scratch buffers sized to
// at least the block's capacity.
func NewFilterRound(particles pstore.ParticleSet, offsets attrs.Arrays, remainingDurations []float32, endTime float64, bestTF []float32, nextEvent []uint32) *FilterRound {
	for _, pindex := range particles.Indices() {
		bestTF[pindex] = 1.0
		nextEvent[pindex] = noEvent
	}
	return &FilterRound{
		Particles:          particles,
		Offsets:            offsets,
		RemainingDurations: remainingDurations,
		EndTime:            endTime,
		bestTF:             bestTF,
		nextEvent:          nextEvent,
	}
}

// BeginEvent returns the interface the pipeline hands to eventIndex's
// Filter call for this round, backed by storage (nil if the event
// declares none).
func (r *FilterRound) BeginEvent(eventIndex int, storage *EventStorage) *FilterInterface {
	return &FilterInterface{round: r, eventIndex: eventIndex, Storage: storage}
}

// BestTimeFactor returns the current winning time factor for pindex,
// 1.0 if no event has claimed it yet this round.
func (r *FilterRound) BestTimeFactor(pindex int) float32 { return r.bestTF[pindex] }

// NextEventIndex returns the index into the declared event list that
// currently owns pindex, or -1 if none does.
func (r *FilterRound) NextEventIndex(pindex int) int {
	v := r.nextEvent[pindex]
	if v == noEvent {
		return -1
	}
	return int(v)
}

// FilterInterface is the view one event's Filter call sees: the round's
// particle set, offsets and remaining durations, plus Trigger to claim
// a particle.
type FilterInterface struct {
	round      *FilterRound
	eventIndex int

	// Storage is the slab this event writes auxiliary per-particle data
	// into via Trigger's return value. Nil if the event declares none.
	Storage *EventStorage
}

// Particles returns the particle set being filtered this sub-step.
func (f *FilterInterface) Particles() pstore.ParticleSet { return f.round.Particles }

// Offsets returns the current attribute_offsets view, addressed by
// block-local index like Particles.
func (f *FilterInterface) Offsets() attrs.Arrays { return f.round.Offsets }

// RemainingDuration returns the remaining duration for pindex.
func (f *FilterInterface) RemainingDuration(pindex int) float32 {
	return f.round.RemainingDurations[pindex]
}

// EndTime returns the absolute time the enclosing step/sub-step ends at.
func (f *FilterInterface) EndTime() float64 { return f.round.EndTime }

// BestTimeFactor returns the current winning time factor for pindex.
// A Trigger call with tf greater than this is a programmer error.
func (f *FilterInterface) BestTimeFactor(pindex int) float32 {
	return f.round.BestTimeFactor(pindex)
}

// Trigger claims pindex for this event at time factor tf. tf must not
// exceed BestTimeFactor(pindex); ties and strict improvements both win,
// so the last event in declared order to report an equal-or-lower tf is
// the one that ends up executing (spec.md §4.4, §5). Returns this
// event's storage slot for pindex to write auxiliary data into.
func (f *FilterInterface) Trigger(pindex int, tf float32) []byte {
	if tf > f.round.bestTF[pindex] {
		panic(&pstore.InvariantError{
			Op:      "FilterInterface.Trigger",
			Message: fmt.Sprintf("time factor %.6f exceeds current best %.6f for particle index %d", tf, f.round.bestTF[pindex], pindex),
		})
	}
	f.round.bestTF[pindex] = tf
	f.round.nextEvent[pindex] = uint32(f.eventIndex)
	return f.Storage.Slot(pindex)
}
