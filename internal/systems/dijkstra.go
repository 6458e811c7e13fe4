package systems

import (
	"math"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ScoreUnreachable - до клетки нет пути (или на нее нельзя встать).
const ScoreUnreachable uint16 = math.MaxUint16

// ScoreMap - расстояние в шагах до ближайшей цели для каждой клетки.
// Живет один вызов навигации, между ходами не хранится.
type ScoreMap = domain.Grid[uint16]

// WalkableFunc - оракул проходимости для карты оценок.
type WalkableFunc func(p domain.HexPosition) bool

// BuildScoreMap засевает нулями клетки целей и релаксирует соседей полными проходами
// по карте, пока очередной проход ничего не изменит. Возвращает карту и число проходов.
func BuildScoreMap(length int, targets []domain.HexPosition, walkable WalkableFunc) (*ScoreMap, int, error) {
	scores, err := domain.NewGrid(length, ScoreUnreachable)
	if err != nil {
		return nil, 0, err
	}

	seeded := 0
	for _, p := range targets {
		if !walkable(p) {
			continue
		}
		if err := scores.Set(p, 0); err == nil {
			seeded++
		}
	}

	passes := 0
	if seeded > 0 {
		for {
			passes++
			if !relaxPass(scores, walkable) {
				break
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "dijkstra_system",
		"targets":   seeded,
		"passes":    passes,
	}).Debug("Score map relaxed.")

	return scores, passes, nil
}

// relaxPass - один полный проход. Возвращает true, если хоть одна оценка уменьшилась.
// Оценки только уменьшаются.
func relaxPass(scores *ScoreMap, walkable WalkableFunc) bool {
	changed := false
	for idx := range scores.Cells {
		pos := scores.PositionOf(idx)
		if !walkable(pos) {
			continue
		}
		best := minNeighborScore(scores, pos, walkable)
		if best == ScoreUnreachable {
			continue
		}
		if scores.Cells[idx] > best+1 {
			scores.Cells[idx] = best + 1
			changed = true
		}
	}
	return changed
}

// NeighborScores возвращает оценки шести соседей в порядке domain.Directions.
// Соседи вне карты, за краем (с заворотом) и непроходимые получают ScoreUnreachable.
func NeighborScores(scores *ScoreMap, pos domain.HexPosition, walkable WalkableFunc) [6]uint16 {
	var res [6]uint16
	for i, dir := range domain.Directions {
		var ws domain.WrapState
		next, legal := ws.StepWrapped(dir, pos, scores.Length)
		if !legal || !walkable(next) {
			res[i] = ScoreUnreachable
			continue
		}
		res[i], _ = scores.At(next)
	}
	return res
}

func minNeighborScore(scores *ScoreMap, pos domain.HexPosition, walkable WalkableFunc) uint16 {
	best := ScoreUnreachable
	for _, s := range NeighborScores(scores, pos, walkable) {
		if s < best {
			best = s
		}
	}
	return best
}
