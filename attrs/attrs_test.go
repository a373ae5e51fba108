package attrs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoUnionDedup(t *testing.T) {
	a := NewInfo([]string{KillStateAttr}, []string{BirthTimeAttr}, nil)
	b := NewInfo([]string{KillStateAttr, "Tag"}, []string{"Mass"}, []string{"Position"})

	union := a.UnionWith(b)

	assert.Equal(t, []string{KillStateAttr, "Tag"}, union.ByteAttributes())
	assert.Equal(t, []string{BirthTimeAttr, "Mass"}, union.FloatAttributes())
	assert.Equal(t, []string{"Position"}, union.Float3Attributes())
}

func TestInfoIndexLookup(t *testing.T) {
	info := NewInfo([]string{"A", "B"}, []string{"X"}, []string{"Position", "Velocity"})

	assert.Equal(t, 0, info.IndexOfByte("A"))
	assert.Equal(t, 1, info.IndexOfByte("B"))
	assert.Equal(t, -1, info.IndexOfByte("Z"))
	assert.True(t, info.HasFloat3("Velocity"))
	assert.False(t, info.HasFloat3("Acceleration"))
}

func TestArraysCoreMoveAndSlice(t *testing.T) {
	info := NewInfo([]string{KillStateAttr}, []string{BirthTimeAttr}, []string{"Position"})
	core := NewArraysCore(info, 4)

	active := core.Slice(0, 3)
	pos := active.GetFloat3("Position")
	pos[0] = mgl32.Vec3{1, 2, 3}
	pos[1] = mgl32.Vec3{4, 5, 6}
	pos[2] = mgl32.Vec3{7, 8, 9}

	active.Move(2, 0)

	require.Equal(t, mgl32.Vec3{7, 8, 9}, pos[0])
	require.Equal(t, mgl32.Vec3{4, 5, 6}, pos[1])
}

func TestRetypePreservesSharedDropsRemovedZeroesAdded(t *testing.T) {
	oldInfo := NewInfo([]string{KillStateAttr}, []string{BirthTimeAttr, "Mass"}, []string{"Position"})
	core := NewArraysCore(oldInfo, 2)
	core.GetFloatColumn("Mass")[0] = 42
	core.GetFloat3Column("Position")[0] = mgl32.Vec3{1, 1, 1}

	newInfo := NewInfo([]string{KillStateAttr}, []string{BirthTimeAttr}, []string{"Position", "Velocity"})
	retyped := Retype(core, newInfo)

	assert.False(t, retyped.Info().HasFloat("Mass"))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, retyped.GetFloat3Column("Position")[0])
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, retyped.GetFloat3Column("Velocity")[0])
}

func TestArraysSliceOutOfRangePanics(t *testing.T) {
	info := NewInfo(nil, nil, []string{"Position"})
	core := NewArraysCore(info, 4)
	view := core.Slice(0, 2)

	assert.Panics(t, func() {
		view.Slice(1, 5)
	})
}
