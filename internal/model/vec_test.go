package model

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestVec2_DistanceSquared(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		want float64
	}{
		{"same point", Vec2{1, 1}, Vec2{1, 1}, 0},
		{"axis aligned", Vec2{0, 0}, Vec2{3, 0}, 9},
		{"3-4-5", Vec2{-1, -2}, Vec2{2, 2}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.DistanceSquared(tt.b))
			// симметричность важна для проверки пересечений в обе стороны
			assert.Equal(t, tt.a.DistanceSquared(tt.b), tt.b.DistanceSquared(tt.a))
		})
	}
}

func TestVec2_LiftGround(t *testing.T) {
	p := Vec2{X: 4, Y: -7}
	w := p.Lift(0.5)

	assert.Equal(t, Vec3{X: 4, Y: 0.5, Z: -7}, w)
	assert.Equal(t, p, w.Ground())
	assert.Equal(t, 65.0, p.LengthSquared())
}

func TestSpawnableKind_Validate(t *testing.T) {
	tests := []struct {
		name    string
		kind    SpawnableKind
		wantErr bool
	}{
		{"valid", SpawnableKind{Name: "oak", Archetype: ArchetypeTree, BaseSize: 2.8, SpawnWeight: 1.2}, false},
		{"zero weight allowed", SpawnableKind{Name: "oak", Archetype: ArchetypeTree, BaseSize: 2.8}, false},
		{"negative weight", SpawnableKind{Name: "oak", Archetype: ArchetypeTree, BaseSize: 2.8, SpawnWeight: -1}, true},
		{"zero size", SpawnableKind{Name: "oak", Archetype: ArchetypeTree, SpawnWeight: 1}, true},
		{"empty name", SpawnableKind{Archetype: ArchetypeTree, BaseSize: 1, SpawnWeight: 1}, true},
		{"empty archetype", SpawnableKind{Name: "oak", BaseSize: 1, SpawnWeight: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kind.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInstanceName(t *testing.T) {
	assert.Equal(t, "Tree 17", InstanceName(ArchetypeTree, 17))
	assert.Equal(t, "Mushroom 0", InstanceName(ArchetypeMushroom, 0))
	assert.Equal(t, "Fern 3", InstanceName(Archetype("fern"), 3))

	// первая буква может быть не ASCII
	name := InstanceName(Archetype("ёлка"), 3)
	assert.Equal(t, "Ёлка 3", name)
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, "", Archetype("").Title())
}
