package domain

import (
	"fmt"
	"strings"
)

// HexPosition - клетка гекс-карты в "кирпичной" раскладке (нечетные ряды сдвинуты на пол-клетки вправо).
// Координаты беззнаковые: выход за 0 или 255 заворачивается, это ловит WrapState.
type HexPosition struct {
	Y uint8 `json:"y"`
	X uint8 `json:"x"`
}

func (p HexPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Y, p.X)
}

// Direction - одно из шести направлений на гекс-сетке.
type Direction uint8

// Порядок перечисления важен: по нему AI выбирает направление при равных оценках.
const (
	DirNone Direction = iota // Сброс сессии WrapState, движения нет
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouthWest
	DirWest
	DirNorthWest
)

// Directions - все шесть направлений в порядке перечисления.
var Directions = [6]Direction{
	DirNorthEast, DirEast, DirSouthEast, DirSouthWest, DirWest, DirNorthWest,
}

// Клавиши классического клиента: e d c b a y
var directionKeys = map[Direction]byte{
	DirNorthEast: 'e',
	DirEast:      'd',
	DirSouthEast: 'c',
	DirSouthWest: 'b',
	DirWest:      'a',
	DirNorthWest: 'y',
}

var directionNames = map[Direction]string{
	DirNone:      "NONE",
	DirNorthEast: "NE",
	DirEast:      "E",
	DirSouthEast: "SE",
	DirSouthWest: "SW",
	DirWest:      "W",
	DirNorthWest: "NW",
}

// ParseDirection понимает и буквы клиента ("e"), и имена ("NE", "ne").
func ParseDirection(s string) (Direction, bool) {
	if len(s) == 1 {
		for d, k := range directionKeys {
			if k == s[0] {
				return d, true
			}
		}
	}
	upper := strings.ToUpper(s)
	for _, d := range Directions {
		if directionNames[d] == upper {
			return d, true
		}
	}
	return DirNone, false
}

// String реализует интерфейс Stringer (для логов)
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// Key возвращает букву направления для протокола клиента.
func (d Direction) Key() byte {
	return directionKeys[d]
}

// IsEastward / IsWestward / IsNorthward / IsSouthward - нужны для учета заворота.
func (d Direction) IsEastward() bool {
	return d == DirNorthEast || d == DirEast || d == DirSouthEast
}

func (d Direction) IsWestward() bool {
	return d == DirNorthWest || d == DirWest || d == DirSouthWest
}

func (d Direction) IsNorthward() bool {
	return d == DirNorthEast || d == DirNorthWest
}

func (d Direction) IsSouthward() bool {
	return d == DirSouthEast || d == DirSouthWest
}

// Step сдвигает позицию на одну клетку в направлении dir.
// Для диагоналей сдвиг по X зависит от четности ряда: нечетные ряды смещены на восток.
// Арифметика uint8 - выход за границу типа заворачивается (0 -> 255), это не ошибка.
func Step(dir Direction, p HexPosition) HexPosition {
	odd := p.Y % 2
	switch dir {
	case DirNorthEast:
		p.X += odd
		p.Y--
	case DirEast:
		p.X++
	case DirSouthEast:
		p.X += odd
		p.Y++
	case DirSouthWest:
		p.X -= 1 - odd
		p.Y++
	case DirWest:
		p.X--
	case DirNorthWest:
		p.X -= 1 - odd
		p.Y--
	}
	return p
}
