package systems

import (
	"fmt"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Направления обхода кольца по часовой стрелке, начиная с юго-восточного угла.
var ringWalk = [6]domain.Direction{
	domain.DirWest,
	domain.DirNorthWest,
	domain.DirNorthEast,
	domain.DirEast,
	domain.DirSouthEast,
	domain.DirSouthWest,
}

// hexSpan - угловые границы гекса, видимые из центра обзора.
type hexSpan struct {
	left, right, middle uint32
}

// normalizeAngle приводит угол к [0, Circle).
func normalizeAngle(a int64) uint32 {
	c := int64(Circle)
	a %= c
	if a < 0 {
		a += c
	}
	return uint32(a)
}

// hexSpanAt считает сектор гекса номер hexI на кольце радиуса dist.
// Нумерация по часовой стрелке от самого восточного гекса кольца.
func hexSpanAt(dist, hexI int) hexSpan {
	c := int64(Circle)
	r := int64(dist)
	left := (c/12)/r - int64(hexI)*(c/6)/r
	return hexSpan{
		left:   normalizeAngle(left),
		right:  normalizeAngle(left - c/(6*r)),
		middle: normalizeAngle(left - c/(12*r)),
	}
}

// BuildFOV считает поле зрения из origin со своей собственной сессией заворота.
func BuildFOV(w *domain.GameWorld, origin domain.HexPosition) (*domain.FovMap, error) {
	var ws domain.WrapState
	return BuildFOVSession(w, origin, &ws)
}

// BuildFOVSession обходит кольца гексов вокруг origin и отмечает клетки,
// закрытые тенями непрозрачной местности.
//
// ws должен быть свежим или сброшенным: повторное использование без Reset - ошибка.
// На выходе счетчики заворота обнулены.
func BuildFOVSession(w *domain.GameWorld, origin domain.HexPosition, ws *domain.WrapState) (*domain.FovMap, error) {
	if !w.Terrain.InBounds(origin) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOriginOffMap, origin)
	}
	if err := ws.Begin(); err != nil {
		return nil, err
	}
	defer ws.EndSweep()

	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "fov_system",
		"origin_pos": origin,
	})

	length := w.MapLength()
	fov, err := domain.NewGrid(length, domain.Visible)
	if err != nil {
		return nil, err
	}

	var shadows ShadowSet
	entry := origin
	rings := 0

	// Радиус ограничен удвоенной длиной карты: дальше обход ходит только по заворотам.
	for dist := 1; dist <= 2*length; dist++ {
		// 1. Входим в кольцо с юго-восточного угла: его номер на кольце равен dist
		var legal bool
		entry, legal = ws.StepWrapped(domain.DirSouthEast, entry, length)

		pos := entry
		hexI := dist
		onMap := false

		// 2. Обходим 6 сторон кольца по dist гексов
		for _, dir := range ringWalk {
			for k := 0; k < dist; k++ {
				if legal {
					onMap = true
					evalHex(w, fov, &shadows, pos, dist, hexI)
				}
				pos, legal = ws.StepWrapped(dir, pos, length)
				hexI = (hexI + 1) % (6 * dist)
			}
		}

		// 3. Кольцо целиком вне карты - дальше смотреть нечего
		if !onMap {
			break
		}
		rings++
	}

	if a, b, bad := shadows.Overlapping(); bad {
		fovLogger.WithFields(logrus.Fields{"a": a, "b": b}).Warn("Shadow intervals overlap after sweep.")
	}

	fovLogger.WithFields(logrus.Fields{
		"rings":   rings,
		"shadows": shadows.Len(),
	}).Debug("FOV calculation complete.")

	return fov, nil
}

// evalHex решает видимость одного гекса и, если он непрозрачный, добавляет его тень.
func evalHex(w *domain.GameWorld, fov *domain.FovMap, shadows *ShadowSet, pos domain.HexPosition, dist, hexI int) {
	span := hexSpanAt(dist, hexI)
	fully := shadeHex(fov, shadows, pos, span)
	if w.IsOpaque(pos) && !fully {
		shadows.Insert(span.left, span.right)
	}
}

// shadeHex прячет гекс, если его сектор целиком в тени или его середина строго внутри тени.
// Возвращает true только в первом случае: такой гекс уже не может отбросить новую тень.
func shadeHex(fov *domain.FovMap, shadows *ShadowSet, pos domain.HexPosition, span hexSpan) bool {
	idx, err := fov.Index(pos)
	if err != nil || fov.Cells[idx] != domain.Visible {
		return false
	}
	if shadows.Covers(span.left, span.right) {
		fov.Cells[idx] = domain.Hidden
		return true
	}
	if shadows.StrictlyInside(span.middle) {
		fov.Cells[idx] = domain.Hidden
	}
	return false
}
