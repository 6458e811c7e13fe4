package domain

import (
	"errors"
	"fmt"
)

// MaxMapLength - координаты uint8, больше 256 клеток на сторону не поместится.
const MaxMapLength = 256

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrEmptyMap    = errors.New("map length must be positive")
)

// Grid - квадратная карта длины Length, хранится плоским массивом (Y * Length + X).
// Индексация только через HexPosition, чтобы не размазывать арифметику индексов по коду.
type Grid[T any] struct {
	Length int `json:"length"`
	Cells  []T `json:"cells"`
}

// NewGrid создает карту и заполняет ее значением fill.
func NewGrid[T any](length int, fill T) (*Grid[T], error) {
	if length <= 0 || length > MaxMapLength {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyMap, length)
	}
	g := &Grid[T]{
		Length: length,
		Cells:  make([]T, length*length),
	}
	g.Fill(fill)
	return g, nil
}

// Fill перезаписывает все клетки.
func (g *Grid[T]) Fill(v T) {
	for i := range g.Cells {
		g.Cells[i] = v
	}
}

// InBounds - true, если клетка лежит на карте.
func (g *Grid[T]) InBounds(p HexPosition) bool {
	return int(p.Y) < g.Length && int(p.X) < g.Length
}

// Index переводит позицию в индекс плоского массива.
func (g *Grid[T]) Index(p HexPosition) (int, error) {
	if !g.InBounds(p) {
		return 0, fmt.Errorf("%w: %s on map of length %d", ErrOutOfBounds, p, g.Length)
	}
	return int(p.Y)*g.Length + int(p.X), nil
}

// At возвращает значение клетки. Вне карты - нулевое значение и false.
func (g *Grid[T]) At(p HexPosition) (T, bool) {
	idx, err := g.Index(p)
	if err != nil {
		var zero T
		return zero, false
	}
	return g.Cells[idx], true
}

// Set записывает значение клетки.
func (g *Grid[T]) Set(p HexPosition, v T) error {
	idx, err := g.Index(p)
	if err != nil {
		return err
	}
	g.Cells[idx] = v
	return nil
}

// PositionOf - обратное к Index.
func (g *Grid[T]) PositionOf(idx int) HexPosition {
	return HexPosition{Y: uint8(idx / g.Length), X: uint8(idx % g.Length)}
}

// Clone делает независимую копию.
func (g *Grid[T]) Clone() *Grid[T] {
	cells := make([]T, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid[T]{Length: g.Length, Cells: cells}
}
