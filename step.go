package particlesim

import (
	"runtime"
	"sync"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/scratch"
	"github.com/gekko3d/particlesim/simevent"
)

// DefaultBlockCapacity is the fixed per-block row capacity new
// containers are created with (spec.md §6's "block capacity B").
const DefaultBlockCapacity = 1000

// StepResult summarizes one completed step for logging and tests.
type StepResult struct {
	BlocksSimulated int
	ParticlesBorn   int
	ParticlesKilled int
}

// Simulate advances state by one step per desc, implementing the step
// driver of spec.md §4.5:
//
//  1. advance the clock
//  2. ensure containers and attribute descriptor sets exist
//  3. simulate existing blocks in parallel
//  4. run emitters
//  5. simulate newborn blocks to the step end, draining re-emission
//     until no new blocks appear
//  6. delete killed particles
//  7. compress containers
//
// A configuration error is returned before any of this runs, leaving
// state untouched.
func Simulate(state *pstore.State, desc StepDescription, logger Logger) (StepResult, error) {
	if logger == nil {
		logger = NewNopLogger()
	}

	infoByType, err := desc.validate()
	if err != nil {
		logger.Errorf("particlesim: step configuration rejected: %v", err)
		return StepResult{}, err
	}

	byName := make(map[string]ParticleTypeDescription, len(desc.Types))
	for _, t := range desc.Types {
		byName[t.Name] = t
	}

	span := pstore.NewTimeSpan(state.CurrentTime(), desc.Duration)
	state.AdvanceTo(span.End)

	for _, t := range desc.Types {
		container := state.EnsureContainer(t.Name, DefaultBlockCapacity)
		container.UpdateAttributes(infoByType[t.Name])
	}
	containerNames := containerTypeNames(state, desc.Types)

	maxEvents := desc.maxEventsPerBlock()

	result := StepResult{}

	newborns, simulated := runExistingBlocks(state, desc.Types, desc.Duration, span.End, maxEvents)
	result.BlocksSimulated += simulated

	emitted := runEmitters(state, desc.Emitters, span)
	newborns = append(newborns, emitted...)

	for len(newborns) > 0 {
		var born int
		newborns, simulated, born = runNewbornBlocks(state, byName, containerNames, span.End, maxEvents, newborns)
		result.BlocksSimulated += simulated
		result.ParticlesBorn += born
	}

	result.ParticlesKilled = deleteTaggedParticles(state, desc.Types)
	compressAllContainers(desc.Types, state)

	logger.Debugf("particlesim: step done: blocks=%d born=%d killed=%d", result.BlocksSimulated, result.ParticlesBorn, result.ParticlesKilled)
	return result, nil
}

func containerTypeNames(state *pstore.State, types []ParticleTypeDescription) map[*pstore.Container]string {
	m := make(map[*pstore.Container]string, len(types))
	for _, t := range types {
		if c := state.Container(t.Name); c != nil {
			m[c] = t.Name
		}
	}
	return m
}

// blockJob is one unit of parallel block work: the block, the type it
// belongs to, and that type's integrator/events.
type blockJob struct {
	block *pstore.Block
	td    ParticleTypeDescription
}

// maxWorkers caps the worker pool per parallel region, mirroring
// particles_ecs.go's particlesCollect worker-pool sizing.
func maxWorkers(jobs int) int {
	n := runtime.GOMAXPROCS(0)
	if n > 8 {
		n = 8
	}
	if n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

func capacityHint(jobs []blockJob) int {
	max := 0
	for _, j := range jobs {
		if c := j.block.Capacity(); c > max {
			max = c
		}
	}
	return max
}

// runBlockJobs drives jobs through a worker pool, each worker owning
// its own array allocator and particle allocator for the duration of
// the region (spec.md §5). fill populates a job's per-particle
// remaining-durations buffer before simulateBlock runs. It returns the
// blocks newly created by any worker's particle allocator, the blocks
// simulated, and the particles born.
func runBlockJobs(state *pstore.State, jobs []blockJob, endTime float64, maxEvents int, fill func(job blockJob, remainingDurations []float32)) ([]*pstore.Block, int, int) {
	if len(jobs) == 0 {
		return nil, 0, 0
	}

	workers := maxWorkers(len(jobs))
	jobCh := make(chan blockJob)

	var mu sync.Mutex
	var newborns []*pstore.Block
	born := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			arrays := scratch.NewArrayAllocator(capacityHint(jobs))
			allocator := pstore.NewParticleAllocator(state)
			for job := range jobCh {
				durations := arrays.AllocateFloat(job.block.Capacity())
				fill(job, durations.Values)
				particles := pstore.NewRangeParticleSet(job.block, 0, job.block.ActiveAmount())
				simulateBlock(particles, durations.Values, endTime, job.td, allocator, arrays, maxEvents)
				durations.Release()
			}
			mu.Lock()
			newborns = append(newborns, allocator.CreatedBlocks()...)
			born += allocator.Born()
			mu.Unlock()
		}()
	}
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()
	return newborns, len(jobs), born
}

func runExistingBlocks(state *pstore.State, types []ParticleTypeDescription, duration float64, endTime float64, maxEvents int) ([]*pstore.Block, int) {
	var jobs []blockJob
	for _, t := range types {
		container := state.Container(t.Name)
		if container == nil {
			continue
		}
		for _, b := range container.ActiveBlocks() {
			if b.ActiveAmount() > 0 {
				jobs = append(jobs, blockJob{block: b, td: t})
			}
		}
	}
	durationF32 := float32(duration)
	newborns, simulated, _ := runBlockJobs(state, jobs, endTime, maxEvents, func(job blockJob, remainingDurations []float32) {
		for i := 0; i < job.block.ActiveAmount(); i++ {
			remainingDurations[i] = durationF32
		}
	})
	return newborns, simulated
}

func runNewbornBlocks(state *pstore.State, byName map[string]ParticleTypeDescription, containerNames map[*pstore.Container]string, endTime float64, maxEvents int, pending []*pstore.Block) ([]*pstore.Block, int, int) {
	var jobs []blockJob
	for _, b := range pending {
		if b.ActiveAmount() == 0 {
			continue
		}
		name, ok := containerNames[b.Container()]
		if !ok {
			continue
		}
		td, ok := byName[name]
		if !ok {
			continue
		}
		jobs = append(jobs, blockJob{block: b, td: td})
	}
	return runBlockJobs(state, jobs, endTime, maxEvents, func(job blockJob, remainingDurations []float32) {
		birth := job.block.SliceAll().GetFloat(attrs.BirthTimeAttr)
		for i := 0; i < job.block.ActiveAmount(); i++ {
			d := endTime - float64(birth[i])
			if d < 0 {
				d = 0
			}
			remainingDurations[i] = float32(d)
		}
	})
}

func runEmitters(state *pstore.State, emitters []simevent.Emitter, span pstore.TimeSpan) []*pstore.Block {
	if len(emitters) == 0 {
		return nil
	}
	arrays := scratch.NewArrayAllocator(DefaultBlockCapacity)
	allocator := pstore.NewParticleAllocator(state)
	for _, e := range emitters {
		e.Emit(&simevent.EmitterInterface{Allocator: allocator, Arrays: arrays, Span: span})
	}
	return allocator.CreatedBlocks()
}

// deleteTaggedParticles runs the backward-swap deletion pass of
// spec.md §4.5 step 7 in parallel across every block of every type.
func deleteTaggedParticles(state *pstore.State, types []ParticleTypeDescription) int {
	var blocks []*pstore.Block
	for _, t := range types {
		if c := state.Container(t.Name); c != nil {
			blocks = append(blocks, c.ActiveBlocks()...)
		}
	}
	if len(blocks) == 0 {
		return 0
	}

	workers := maxWorkers(len(blocks))
	blockCh := make(chan *pstore.Block)
	var mu sync.Mutex
	killed := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			local := 0
			for b := range blockCh {
				local += deleteTaggedInBlock(b)
			}
			mu.Lock()
			killed += local
			mu.Unlock()
		}()
	}
	for _, b := range blocks {
		blockCh <- b
	}
	close(blockCh)
	wg.Wait()
	return killed
}

func deleteTaggedInBlock(b *pstore.Block) int {
	kill := b.SliceAll().GetByte(attrs.KillStateAttr)
	active := b.ActiveAmount()
	killed := 0
	i := 0
	for i < active {
		if kill[i] == 0 {
			i++
			continue
		}
		last := active - 1
		if i != last {
			b.Move(last, i)
		}
		active--
		killed++
	}
	b.SetActiveAmount(active)
	return killed
}

func compressAllContainers(types []ParticleTypeDescription, state *pstore.State) {
	for _, t := range types {
		c := state.Container(t.Name)
		if c == nil {
			continue
		}
		blocks := c.ActiveBlocks()
		pstore.Compress(blocks)
		for _, b := range blocks {
			if b.IsEmpty() {
				c.ReleaseBlock(b)
			}
		}
	}
}
