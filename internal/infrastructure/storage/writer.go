package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
)

// Заголовки секций файла состояния мира
const (
	keyTick       = "TICK"
	keyThing      = "THING"
	keyLifepoints = "LIFEPOINTS"
	keyPos        = "POS"
	keyMap        = "MAP"
	keyRemembered = "REMEMBERED"
)

// WorldStateService пишет файлы состояния мира глазами одной сущности.
type WorldStateService struct {
	SaveDir string
}

func NewWorldStateService(dir string) (*WorldStateService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save dir %s: %w", dir, err)
	}
	return &WorldStateService{SaveDir: dir}, nil
}

// Path - файл состояния мира сущности id.
func (s *WorldStateService) Path(id domain.ThingID) string {
	return filepath.Join(s.SaveDir, fmt.Sprintf("worldstate_%d.txt", uint64(id)))
}

// Save пишет файл worldstate_<id>.txt (перезаписывая прошлый) и возвращает путь.
func (s *WorldStateService) Save(tick int, t *domain.Thing) (string, error) {
	path := s.Path(t.ID)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteWorldState(f, tick, t); err != nil {
		return "", err
	}
	return path, f.Sync()
}

// WriteWorldState пишет текстовый снимок: заголовок, карту памяти и запомненные предметы.
//
// Карта - по строке на ряд, клетки через пробел, нечетные ряды сдвинуты на один пробел,
// так что гексы в файле стоят "кирпичиком", как на карте.
// Поле зрения не пишется: оно пересчитывается.
func WriteWorldState(out io.Writer, tick int, t *domain.Thing) error {
	if t.Memory == nil || t.Memory.Map == nil {
		return fmt.Errorf("thing %s has no memory to save", t.ID)
	}
	mem := t.Memory
	length := mem.Map.Length

	bw := bufio.NewWriter(out)

	// 1. Заголовок
	fmt.Fprintf(bw, "%s %d\n", keyTick, tick)
	fmt.Fprintf(bw, "%s %d\n", keyThing, uint64(t.ID))
	fmt.Fprintf(bw, "%s %d\n", keyLifepoints, t.Lifepoints)
	fmt.Fprintf(bw, "%s %d %d\n", keyPos, t.Pos.Y, t.Pos.X)

	// 2. Карта
	fmt.Fprintf(bw, "%s %d\n", keyMap, length)
	line := make([]byte, 0, 2*length+1)
	for y := 0; y < length; y++ {
		line = line[:0]
		if y%2 == 1 {
			line = append(line, ' ')
		}
		for x := 0; x < length; x++ {
			if x > 0 {
				line = append(line, ' ')
			}
			line = append(line, mem.Map.Cells[y*length+x])
		}
		line = append(line, '\n')
		bw.Write(line)
	}

	// 3. Запомненные предметы
	fmt.Fprintf(bw, "%s %d\n", keyRemembered, len(mem.Things))
	for _, tm := range mem.Things {
		fmt.Fprintf(bw, "%c %d %d %d\n", tm.Type.Symbol(), tm.Pos.Y, tm.Pos.X, tm.Age)
	}

	return bw.Flush()
}
