package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		from HexPosition
		want HexPosition
	}{
		{"even row NE", DirNorthEast, HexPosition{2, 3}, HexPosition{1, 3}},
		{"even row NW", DirNorthWest, HexPosition{2, 3}, HexPosition{1, 2}},
		{"even row SE", DirSouthEast, HexPosition{2, 3}, HexPosition{3, 3}},
		{"even row SW", DirSouthWest, HexPosition{2, 3}, HexPosition{3, 2}},
		{"even row E", DirEast, HexPosition{2, 3}, HexPosition{2, 4}},
		{"even row W", DirWest, HexPosition{2, 3}, HexPosition{2, 2}},
		{"odd row NE", DirNorthEast, HexPosition{1, 3}, HexPosition{0, 4}},
		{"odd row NW", DirNorthWest, HexPosition{1, 3}, HexPosition{0, 3}},
		{"odd row SE", DirSouthEast, HexPosition{1, 3}, HexPosition{2, 4}},
		{"odd row SW", DirSouthWest, HexPosition{1, 3}, HexPosition{2, 3}},
		{"none", DirNone, HexPosition{1, 3}, HexPosition{1, 3}},
		{"uint8 underflow", DirWest, HexPosition{0, 0}, HexPosition{0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Step(tt.dir, tt.from))
		})
	}
}

func TestStep_OppositeDirectionsCancel(t *testing.T) {
	opposite := map[Direction]Direction{
		DirNorthEast: DirSouthWest,
		DirEast:      DirWest,
		DirSouthEast: DirNorthWest,
		DirSouthWest: DirNorthEast,
		DirWest:      DirEast,
		DirNorthWest: DirSouthEast,
	}
	for y := uint8(1); y < 5; y++ {
		for _, d := range Directions {
			start := HexPosition{Y: y, X: 3}
			back := Step(opposite[d], Step(d, start))
			assert.Equal(t, start, back, "%s then %s from %s", d, opposite[d], start)
		}
	}
}

func TestWrapState_StepWrapped(t *testing.T) {
	var ws WrapState

	// Уходим за западный край и возвращаемся
	p, legal := ws.StepWrapped(DirWest, HexPosition{0, 0}, 4)
	assert.False(t, legal)
	assert.Equal(t, int8(-1), ws.WestEast)
	assert.Equal(t, HexPosition{0, 255}, p)

	p, legal = ws.StepWrapped(DirEast, p, 4)
	assert.True(t, legal)
	assert.True(t, ws.IsZero())
	assert.Equal(t, HexPosition{0, 0}, p)

	// Северный край
	p, legal = ws.StepWrapped(DirNorthEast, HexPosition{0, 0}, 4)
	assert.False(t, legal)
	assert.Equal(t, int8(-1), ws.NorthSouth)

	p, legal = ws.StepWrapped(DirSouthEast, p, 4)
	assert.True(t, legal)
	assert.Equal(t, HexPosition{0, 1}, p)

	// Вне карты, но без заворота
	_, legal = ws.StepWrapped(DirEast, HexPosition{0, 3}, 4)
	assert.False(t, legal)
	assert.True(t, ws.IsZero())
}

func TestWrapState_ResetSentinel(t *testing.T) {
	var ws WrapState
	p, _ := ws.StepWrapped(DirWest, HexPosition{2, 0}, 4)
	require.False(t, ws.IsZero())

	same, legal := ws.StepWrapped(DirNone, p, 4)
	assert.Equal(t, p, same, "reset must not move")
	assert.False(t, legal)
	assert.True(t, ws.IsZero())
	assert.NoError(t, ws.Begin())
}

func TestWrapState_Begin(t *testing.T) {
	var ws WrapState
	require.NoError(t, ws.Begin())

	ws.StepWrapped(DirEast, HexPosition{1, 1}, 4)
	ws.EndSweep()
	assert.True(t, ws.IsZero())
	assert.ErrorIs(t, ws.Begin(), ErrWrapSessionDirty)

	ws.Reset()
	assert.NoError(t, ws.Begin())
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
		ok    bool
	}{
		{"e", DirNorthEast, true},
		{"d", DirEast, true},
		{"c", DirSouthEast, true},
		{"b", DirSouthWest, true},
		{"a", DirWest, true},
		{"y", DirNorthWest, true},
		{"NE", DirNorthEast, true},
		{"sw", DirSouthWest, true},
		{"E", DirEast, true},
		{"q", DirNone, false},
		{"", DirNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirection(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
