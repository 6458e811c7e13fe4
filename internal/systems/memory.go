package systems

import (
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// UpdateVision пересчитывает поле зрения живой сущности и обновляет ее память.
// Мертвые и неодушевленные не видят: у них поле зрения сбрасывается.
func UpdateVision(w *domain.GameWorld, t *domain.Thing) error {
	if !t.IsAlive() {
		t.Fov = nil
		return nil
	}
	fov, err := BuildFOV(w, t.Pos)
	if err != nil {
		return err
	}
	t.Fov = fov
	UpdateMemory(w, t)
	return nil
}

// UpdateMemory переносит в память сущности то, что она видит сейчас.
// Вызывается сразу после того, как t.Fov заменили свежим полем зрения.
//
// Местность только открывается: уже запомненная клетка не перезаписывается и не забывается.
// Запомненные предметы в видимых клетках заменяются тем, что там лежит сейчас.
func UpdateMemory(w *domain.GameWorld, t *domain.Thing) {
	if t.Fov == nil {
		return
	}
	if t.Memory == nil {
		t.Memory = &domain.MemoryComponent{}
	}
	mem := t.Memory
	if mem.Map == nil || mem.Map.Length != w.MapLength() {
		// Длина карты та же, что и у поля зрения, ошибки тут быть не может
		mem.Map, _ = domain.NewGrid(w.MapLength(), domain.MemUnknown)
	}

	// 1. Местность
	revealed := 0
	for i, v := range t.Fov.Cells {
		if v == domain.Visible && mem.Map.Cells[i] == domain.MemUnknown {
			mem.Map.Cells[i] = w.Terrain.Cells[i]
			revealed++
		}
	}

	// 2. Старые воспоминания о видимых клетках больше не нужны
	kept := mem.Things[:0]
	for _, tm := range mem.Things {
		if t.CanSee(tm.Pos) {
			continue
		}
		tm.Age++
		kept = append(kept, tm)
	}
	mem.Things = kept

	// 3. Снимок предметов и трупов, которые видны сейчас
	for _, other := range w.Things {
		if other == t || other.IsAlive() || !t.CanSee(other.Pos) {
			continue
		}
		mem.Things = append(mem.Things, domain.ThingMemory{Pos: other.Pos, Type: other.Type})
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "memory_system",
		"thing_id":   t.ID,
		"revealed":   revealed,
		"remembered": len(mem.Things),
	}).Debug("Memory map updated.")
}
