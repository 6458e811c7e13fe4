package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

var ErrNoFreeCell = errors.New("no free floor cell left")

// Частоты шума подобраны так, чтобы рощи были по 5-10 клеток
const (
	terrainFrequency = 0.15
	waterFrequency   = 0.08
	noiseOctaves     = 3
)

// BuildWorld генерирует местность по сиду и расставляет сущностей на свободный пол.
// Первая сущность (индекс 1) - человек, которого клиенты обычно берут под управление.
func BuildWorld(cfg Config) (*domain.GameWorld, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.ResolveSeed()

	// 1. Местность
	terrainNoise := opensimplex.NewNormalized(seed)
	waterNoise := opensimplex.NewNormalized(seed + 1)

	length := cfg.MapLength
	rows := make([]string, length)
	row := make([]byte, length)
	for y := 0; y < length; y++ {
		for x := 0; x < length; x++ {
			// Гекс-сетка в декартовых координатах: нечетные ряды сдвинуты на полклетки
			fx := float64(x) + 0.5*float64(y%2)
			fy := float64(y) * math.Sqrt(3.0) / 2.0

			tn := octaveNoise(terrainNoise, fx, fy, noiseOctaves, terrainFrequency, 0.5)
			wn := octaveNoise(waterNoise, fx, fy, noiseOctaves, waterFrequency, 0.5)
			row[x] = deriveTerrain(tn, wn, cfg.TreeDensity)
		}
		rows[y] = string(row)
	}

	w, err := domain.NewGameWorld(rows)
	if err != nil {
		return nil, err
	}

	// 2. Сущности
	rng := rand.New(rand.NewSource(seed))
	placer := newPlacer(w, rng)

	spawns := []struct {
		typ   domain.ThingType
		count int
	}{
		{domain.ThingHuman, 1},
		{domain.ThingMonkey, cfg.Monkeys},
		{domain.ThingBear, cfg.Bears},
		{domain.ThingStone, cfg.Stones},
		{domain.ThingMushroom, cfg.Mushrooms},
	}
	var idx uint64
	for _, s := range spawns {
		for n := 0; n < s.count; n++ {
			pos, err := placer.next()
			if err != nil {
				return nil, fmt.Errorf("placing %s: %w", s.typ, err)
			}
			idx++
			t := &domain.Thing{
				ID:         domain.PackThingID(s.typ, idx),
				Type:       s.typ,
				Name:       fmt.Sprintf("%s %d", s.typ, idx),
				Pos:        pos,
				Lifepoints: s.typ.StartLifepoints(),
			}
			if t.IsAlive() {
				t.AI = &domain.AIComponent{}
			}
			if err := w.AddThing(t); err != nil {
				return nil, err
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"seed":       seed,
		"map_length": length,
		"things":     len(w.Things),
	}).Info("World generated")

	return w, nil
}

// deriveTerrain: вода - в низинах второго шума, деревья и скалы - на вершинах первого.
func deriveTerrain(tn, wn, density float64) byte {
	switch {
	case wn < 0.2:
		return domain.TerrainWater
	case tn > 1-density*0.2:
		return domain.TerrainRock
	case tn > 1-density:
		return domain.TerrainTree
	default:
		return domain.TerrainFloor
	}
}

// octaveNoise складывает octaves слоев шума: у каждого следующего частота вдвое выше, амплитуда умножается на persistence.
// Результат нормирован на сумму амплитуд и остается в [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, frequency
	for o := 0; o < octaves; o++ {
		sum += amp * noise.Eval2(x*freq, y*freq)
		norm += amp
		amp *= persistence
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// placer раздает свободные клетки пола в случайном порядке, каждую не больше одного раза.
type placer struct {
	free []domain.HexPosition
}

func newPlacer(w *domain.GameWorld, rng *rand.Rand) *placer {
	var free []domain.HexPosition
	for idx, c := range w.Terrain.Cells {
		if c == domain.TerrainFloor {
			free = append(free, w.Terrain.PositionOf(idx))
		}
	}
	rng.Shuffle(len(free), func(a, b int) { free[a], free[b] = free[b], free[a] })
	return &placer{free: free}
}

func (p *placer) next() (domain.HexPosition, error) {
	if len(p.free) == 0 {
		return domain.HexPosition{}, ErrNoFreeCell
	}
	pos := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return pos, nil
}
