package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
)

var ErrBadWorldState = errors.New("malformed world state")

// WorldState - содержимое файла состояния мира.
type WorldState struct {
	Tick       int
	ThingID    domain.ThingID
	Lifepoints uint8
	Pos        domain.HexPosition
	Memory     *domain.MemoryComponent
}

func (s *WorldStateService) Load(path string, length int) (*WorldState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWorldState(f, length)
}

// ReadWorldState разбирает то, что написал WriteWorldState.
// length - ожидаемая длина карты: файл от другой карты не читается.
func ReadWorldState(r io.Reader, length int) (*WorldState, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4*domain.MaxMapLength), 4*domain.MaxMapLength)

	lineNo := 0
	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: unexpected end of file after line %d", ErrBadWorldState, lineNo)
		}
		lineNo++
		return sc.Text(), nil
	}
	scan := func(format string, args ...any) error {
		line, err := next()
		if err != nil {
			return err
		}
		if _, err := fmt.Sscanf(line, format, args...); err != nil {
			return fmt.Errorf("%w: line %d %q: %v", ErrBadWorldState, lineNo, line, err)
		}
		return nil
	}

	ws := &WorldState{}
	var id uint64

	// 1. Заголовок
	if err := scan(keyTick+" %d", &ws.Tick); err != nil {
		return nil, err
	}
	if err := scan(keyThing+" %d", &id); err != nil {
		return nil, err
	}
	ws.ThingID = domain.ThingID(id)
	if err := scan(keyLifepoints+" %d", &ws.Lifepoints); err != nil {
		return nil, err
	}
	if err := scan(keyPos+" %d %d", &ws.Pos.Y, &ws.Pos.X); err != nil {
		return nil, err
	}

	// 2. Карта
	var fileLength int
	if err := scan(keyMap+" %d", &fileLength); err != nil {
		return nil, err
	}
	if fileLength != length {
		return nil, fmt.Errorf("%w: map length %d, want %d", ErrBadWorldState, fileLength, length)
	}
	memMap, err := domain.NewGrid(length, domain.MemUnknown)
	if err != nil {
		return nil, err
	}
	for y := 0; y < length; y++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		if y%2 == 1 {
			if len(line) == 0 || line[0] != ' ' {
				return nil, fmt.Errorf("%w: line %d: odd row must be indented", ErrBadWorldState, lineNo)
			}
			line = line[1:]
		}
		if len(line) != 2*length-1 {
			return nil, fmt.Errorf("%w: line %d: row width %d, want %d", ErrBadWorldState, lineNo, len(line), 2*length-1)
		}
		for x := 0; x < length; x++ {
			memMap.Cells[y*length+x] = line[2*x]
		}
	}

	// 3. Запомненные предметы
	var count int
	if err := scan(keyRemembered+" %d", &count); err != nil {
		return nil, err
	}
	things := make([]domain.ThingMemory, 0, count)
	for n := 0; n < count; n++ {
		var (
			sym byte
			tm  domain.ThingMemory
		)
		if err := scan("%c %d %d %d", &sym, &tm.Pos.Y, &tm.Pos.X, &tm.Age); err != nil {
			return nil, err
		}
		tm.Type = domain.ThingTypeBySymbol(sym)
		if tm.Type == domain.ThingUnknown {
			return nil, fmt.Errorf("%w: line %d: unknown thing symbol %q", ErrBadWorldState, lineNo, sym)
		}
		things = append(things, tm)
	}

	ws.Memory = &domain.MemoryComponent{Map: memMap, Things: things}
	return ws, nil
}
