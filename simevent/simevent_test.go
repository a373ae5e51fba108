package simevent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/simevent"
)

func newBlock(t *testing.T, capacity, active int) *pstore.Block {
	t.Helper()
	info := attrs.NewInfo([]string{attrs.KillStateAttr}, []string{attrs.BirthTimeAttr}, []string{"Position"})
	container := pstore.NewContainer(capacity)
	container.UpdateAttributes(info)
	b := container.NewBlock()
	b.SetActiveAmount(active)
	return b
}

func TestEventStorageSlotting(t *testing.T) {
	data := make([]byte, 4*3)
	storage := simevent.NewEventStorage(data, 3)
	storage.Slot(1)[0] = 7
	assert.Equal(t, byte(7), data[3])

	var nilStorage *simevent.EventStorage
	assert.Nil(t, nilStorage.Slot(0))

	zeroSize := simevent.NewEventStorage(nil, 0)
	assert.Nil(t, zeroSize.Slot(0))
}

func TestFilterRoundResetsOnlySetMembers(t *testing.T) {
	block := newBlock(t, 4, 4)
	particles := pstore.NewRangeParticleSet(block, 0, 3)
	bestTF := []float32{0, 0, 0, 0}
	nextEvent := []uint32{5, 5, 5, 5}
	offsets := block.SliceActive()

	round := simevent.NewFilterRound(particles, offsets, []float32{1, 1, 1, 1}, 1.0, bestTF, nextEvent)

	for i := 0; i < 3; i++ {
		assert.Equal(t, float32(1.0), round.BestTimeFactor(i))
		assert.Equal(t, -1, round.NextEventIndex(i))
	}
	// Index 3 is outside the set and keeps its previous bookkeeping.
	assert.Equal(t, float32(0), round.BestTimeFactor(3))
	assert.Equal(t, 5, round.NextEventIndex(3))
}

func TestTriggerAcceptsEqualOrLowerAndLastWriterWins(t *testing.T) {
	block := newBlock(t, 2, 2)
	particles := pstore.NewRangeParticleSet(block, 0, 2)
	bestTF := make([]float32, 2)
	nextEvent := make([]uint32, 2)
	round := simevent.NewFilterRound(particles, block.SliceActive(), []float32{1, 1}, 1.0, bestTF, nextEvent)

	fA := round.BeginEvent(0, nil)
	fA.Trigger(0, 0.5)
	fB := round.BeginEvent(1, nil)
	fB.Trigger(0, 0.5)

	assert.Equal(t, 1, round.NextEventIndex(0), "last event at an equal time factor must win")
	assert.Equal(t, float32(0.5), round.BestTimeFactor(0))
}

func TestTriggerRejectsWorseTimeFactor(t *testing.T) {
	block := newBlock(t, 1, 1)
	particles := pstore.NewRangeParticleSet(block, 0, 1)
	bestTF := make([]float32, 1)
	nextEvent := make([]uint32, 1)
	round := simevent.NewFilterRound(particles, block.SliceActive(), []float32{1}, 1.0, bestTF, nextEvent)

	f := round.BeginEvent(0, nil)
	f.Trigger(0, 0.3)

	f2 := round.BeginEvent(1, nil)
	require.Panics(t, func() { f2.Trigger(0, 0.6) })
}

func TestExecuteInterfaceCurrentTimeUsesShrunkRemaining(t *testing.T) {
	block := newBlock(t, 1, 1)
	particles := pstore.NewRangeParticleSet(block, 0, 1)
	e := &simevent.ExecuteInterface{
		Particles:          particles,
		EndTime:            10,
		RemainingDurations: []float32{4},
	}
	assert.Equal(t, 6.0, e.CurrentTime(0))
}

func TestExecuteInterfaceKillSetsKillState(t *testing.T) {
	block := newBlock(t, 1, 1)
	particles := pstore.NewRangeParticleSet(block, 0, 1)
	e := &simevent.ExecuteInterface{Particles: particles}
	e.Kill(0)
	assert.Equal(t, byte(1), block.SliceActive().GetByte(attrs.KillStateAttr)[0])
}
