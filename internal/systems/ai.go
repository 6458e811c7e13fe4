package systems

import (
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// NavOptions - настройки преследования для NPC.
type NavOptions struct {
	// SightOnly - преследовать только тех, кого NPC видит прямо сейчас.
	SightOnly bool `yaml:"sight_only"`
	// UseMemory - прокладывать путь по памяти NPC, а не по настоящей карте.
	// Незнакомые клетки считаются непроходимыми.
	UseMemory bool `yaml:"use_memory"`
}

// ChooseDirection выбирает соседнюю клетку, которая сильнее всего приближает actor
// к ближайшей другой живой сущности. false - идти некуда (ждать).
//
// При равных оценках побеждает первое направление в порядке domain.Directions.
func ChooseDirection(w *domain.GameWorld, actor *domain.Thing, opts NavOptions) (domain.Direction, bool) {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"actor_id":  actor.ID,
		"actor_pos": actor.Pos,
	})

	// 1. Цели: все живые, кроме самого NPC
	var targets []domain.HexPosition
	for _, other := range w.Things {
		if other == actor || !other.IsAlive() {
			continue
		}
		if opts.SightOnly && !actor.CanSee(other.Pos) {
			continue
		}
		targets = append(targets, other.Pos)
	}
	if len(targets) == 0 {
		aiLogger.Debug("No living targets. Action: WAIT")
		return domain.DirNone, false
	}

	// 2. Карта расстояний
	walkable := walkableFor(w, actor, opts)
	scores, _, err := BuildScoreMap(w.MapLength(), targets, walkable)
	if err != nil {
		// Длина карты уже проверена при создании мира
		aiLogger.WithError(err).Error("Score map failed. Action: WAIT")
		return domain.DirNone, false
	}

	// 3. Лучший сосед
	best := ScoreUnreachable
	dir := domain.DirNone
	for i, s := range NeighborScores(scores, actor.Pos, walkable) {
		if s < best {
			best = s
			dir = domain.Directions[i]
		}
	}
	if dir == domain.DirNone {
		aiLogger.Debug("No path to any target. Action: WAIT")
		return domain.DirNone, false
	}

	aiLogger.WithFields(logrus.Fields{"dir": dir, "score": best}).Debug("Path found.")
	return dir, true
}

// walkableFor - проходимость клеток с точки зрения actor.
func walkableFor(w *domain.GameWorld, actor *domain.Thing, opts NavOptions) WalkableFunc {
	if opts.UseMemory && actor.Memory != nil && actor.Memory.Map != nil {
		mem := actor.Memory.Map
		return func(p domain.HexPosition) bool {
			c, ok := mem.At(p)
			return ok && c == domain.TerrainFloor
		}
	}
	return w.IsPassable
}

// ComputeNPCAction решает, что делать NPC: идти или ждать.
func ComputeNPCAction(w *domain.GameWorld, npc *domain.Thing, opts NavOptions) (domain.ActionType, domain.Direction) {
	if !npc.IsAlive() {
		return domain.ActionWait, domain.DirNone
	}
	dir, ok := ChooseDirection(w, npc, opts)
	if !ok {
		return domain.ActionWait, domain.DirNone
	}
	return domain.ActionMove, dir
}
