package engine

import (
	"testing"

	"github.com/ojrac/opensimplex-go"
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.MapLength = 24
	cfg.Monkeys = 3
	cfg.Bears = 1
	cfg.Stones = 4
	cfg.Mushrooms = 2
	return cfg
}

func TestBuildWorld_Deterministic(t *testing.T) {
	a, err := BuildWorld(smallConfig())
	require.NoError(t, err)
	b, err := BuildWorld(smallConfig())
	require.NoError(t, err)

	assert.Equal(t, a.Terrain.Cells, b.Terrain.Cells)
	require.Len(t, b.Things, len(a.Things))
	for n := range a.Things {
		assert.Equal(t, a.Things[n].ID, b.Things[n].ID)
		assert.Equal(t, a.Things[n].Pos, b.Things[n].Pos)
	}
}

func TestBuildWorld_Placement(t *testing.T) {
	cfg := smallConfig()
	w, err := BuildWorld(cfg)
	require.NoError(t, err)

	require.Len(t, w.Things, 1+cfg.Monkeys+cfg.Bears+cfg.Stones+cfg.Mushrooms)
	assert.Equal(t, domain.ThingHuman, w.Things[0].Type)

	seen := make(map[domain.HexPosition]bool)
	for _, th := range w.Things {
		assert.True(t, w.IsPassable(th.Pos), "%s on %q", th.ID, w.TerrainAt(th.Pos))
		assert.False(t, seen[th.Pos], "two things on %s", th.Pos)
		seen[th.Pos] = true
		assert.Equal(t, th.IsAlive(), th.AI != nil, "only living things take turns")
	}

	for _, c := range w.Terrain.Cells {
		assert.Contains(t, []byte{domain.TerrainFloor, domain.TerrainTree, domain.TerrainRock, domain.TerrainWater}, c)
	}
}

func TestBuildWorld_TooCrowded(t *testing.T) {
	cfg := smallConfig()
	cfg.MapLength = 2
	cfg.Stones = 10
	_, err := BuildWorld(cfg)
	assert.ErrorIs(t, err, ErrNoFreeCell)
}

func TestBuildWorld_FeedsInstance(t *testing.T) {
	w, err := BuildWorld(smallConfig())
	require.NoError(t, err)

	inst, err := NewInstance(w, DefaultConfig().Nav, nil)
	require.NoError(t, err)
	assert.Equal(t, 1+3+1, inst.TurnManager.Len())

	for n := 0; n < 20; n++ {
		_, err := inst.Step()
		require.NoError(t, err)
	}
}

func TestDeriveTerrain(t *testing.T) {
	tests := []struct {
		name    string
		tn, wn  float64
		density float64
		want    byte
	}{
		{"low water noise", 0.5, 0.1, 0.3, domain.TerrainWater},
		{"peak", 0.99, 0.5, 0.3, domain.TerrainRock},
		{"forest", 0.8, 0.5, 0.3, domain.TerrainTree},
		{"plain", 0.4, 0.5, 0.3, domain.TerrainFloor},
		{"no trees at zero density", 0.99, 0.5, 0, domain.TerrainFloor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveTerrain(tt.tn, tt.wn, tt.density))
		})
	}
}

func TestOctaveNoise(t *testing.T) {
	noise := opensimplex.NewNormalized(7)

	// Одна октава - просто шум в этой точке
	assert.InDelta(t, noise.Eval2(0.3, 0.6), octaveNoise(noise, 3, 6, 1, 0.1, 0.5), 1e-12)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			v := octaveNoise(noise, float64(x), float64(y), noiseOctaves, terrainFrequency, 0.5)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	assert.Zero(t, octaveNoise(noise, 1, 1, 0, 0.1, 0.5), "no octaves, no noise")
}
