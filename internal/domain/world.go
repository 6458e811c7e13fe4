package domain

import (
	"errors"
	"fmt"
)

// Символы местности
const (
	TerrainFloor byte = '.'
	TerrainTree  byte = 'X' // Не проходимо, закрывает обзор
	TerrainRock  byte = '^' // Не проходимо, закрывает обзор
	TerrainWater byte = '~' // Не проходимо, но видно насквозь
)

var ErrOriginOffMap = errors.New("origin outside the map")

// GameWorld - карта местности и список сущностей на ней.
// Местность только читается движком: ее меняет генератор мира до начала ходов.
type GameWorld struct {
	Terrain *Grid[byte] `json:"terrain"`
	Tick    int         `json:"tick"`

	Things []*Thing `json:"-"`

	registry map[ThingID]*Thing
}

// NewGameWorld создает мир из готовых строк местности (по строке на ряд).
func NewGameWorld(rows []string) (*GameWorld, error) {
	length := len(rows)
	terrain, err := NewGrid[byte](length, TerrainFloor)
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != length {
			return nil, fmt.Errorf("row %d has length %d, want %d", y, len(row), length)
		}
		copy(terrain.Cells[y*length:], row)
	}
	return &GameWorld{Terrain: terrain, registry: make(map[ThingID]*Thing)}, nil
}

// NewOpenWorld - мир длины length, полностью из пола.
func NewOpenWorld(length int) (*GameWorld, error) {
	terrain, err := NewGrid[byte](length, TerrainFloor)
	if err != nil {
		return nil, err
	}
	return &GameWorld{Terrain: terrain, registry: make(map[ThingID]*Thing)}, nil
}

// MapLength - длина стороны карты.
func (w *GameWorld) MapLength() int {
	return w.Terrain.Length
}

// TerrainAt возвращает символ местности (0 вне карты).
func (w *GameWorld) TerrainAt(p HexPosition) byte {
	c, _ := w.Terrain.At(p)
	return c
}

// IsPassable - можно ли встать на клетку (без учета сущностей).
func (w *GameWorld) IsPassable(p HexPosition) bool {
	return w.TerrainAt(p) == TerrainFloor
}

// IsOpaque - закрывает ли клетка обзор.
func (w *GameWorld) IsOpaque(p HexPosition) bool {
	c := w.TerrainAt(p)
	return c == TerrainTree || c == TerrainRock
}

// AddThing регистрирует сущность. Позиция должна быть на карте.
func (w *GameWorld) AddThing(t *Thing) error {
	if !w.Terrain.InBounds(t.Pos) {
		return fmt.Errorf("%w: thing %s at %s", ErrOriginOffMap, t.ID, t.Pos)
	}
	if w.registry == nil {
		w.registry = make(map[ThingID]*Thing)
	}
	if _, ok := w.registry[t.ID]; ok {
		return fmt.Errorf("thing %s already registered", t.ID)
	}
	w.registry[t.ID] = t
	w.Things = append(w.Things, t)
	return nil
}

// GetThing ищет сущность по ID
func (w *GameWorld) GetThing(id ThingID) *Thing {
	return w.registry[id]
}

// ThingsAt возвращает сущности в клетке. Порядок - порядок добавления.
func (w *GameWorld) ThingsAt(p HexPosition) []*Thing {
	var res []*Thing
	for _, t := range w.Things {
		if t.Pos == p {
			res = append(res, t)
		}
	}
	return res
}

// LivingThingAt - живая сущность в клетке, если есть.
func (w *GameWorld) LivingThingAt(p HexPosition) *Thing {
	for _, t := range w.ThingsAt(p) {
		if t.IsAlive() {
			return t
		}
	}
	return nil
}
