package systems

import (
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	NewPos    domain.HexPosition
	HasMoved  bool
	BlockedBy *domain.Thing // Если врезались в кого-то (для атаки)
	IsWall    bool          // Если врезались в стену или край карты
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
func CalculateMove(t *domain.Thing, dir domain.Direction, w *domain.GameWorld) MovementResult {
	var ws domain.WrapState
	target, legal := ws.StepWrapped(dir, t.Pos, w.MapLength())

	res := MovementResult{NewPos: target}

	// 1. Край карты (включая заворот) и стены
	if dir == domain.DirNone || !legal || !w.IsPassable(target) {
		res.IsWall = true
		return res
	}

	// 2. Живые сущности блокируют клетку, предметы и трупы - нет
	if other := w.LivingThingAt(target); other != nil && other != t {
		res.BlockedBy = other
		return res
	}

	res.HasMoved = true
	return res
}
