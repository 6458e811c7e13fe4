package domain

// Visibility - тег клетки в карте поля зрения.
type Visibility uint8

const (
	Hidden Visibility = iota
	Visible
)

// MemUnknown - клетка памяти, которую сущность еще ни разу не видела.
const MemUnknown byte = ' '

// FovMap - поле зрения одной сущности. Пересчитывается при каждом ее перемещении.
type FovMap = Grid[Visibility]

// MemoryMap - карта того, что сущность когда-либо видела (символы местности).
type MemoryMap = Grid[byte]

// ThingMemory - запомненный предмет/труп вне поля зрения.
type ThingMemory struct {
	Pos  HexPosition `json:"pos"`
	Type ThingType   `json:"type"`
	Age  int         `json:"age"` // Сколько обновлений памяти подряд клетка была не видна
}

// AIComponent - очередь ходов.
// Примечание: У игрока тоже есть этот компонент, чтобы хранить NextActionTick
type AIComponent struct {
	NextActionTick int `json:"nextActionTick"`
}

// Wait добавляет задержку к следующему действию
func (a *AIComponent) Wait(ticks int) {
	a.NextActionTick += ticks
}

// IsReady проверяет, настал ли ход (относительно глобального времени)
func (a *AIComponent) IsReady(globalTick int) bool {
	return a.NextActionTick <= globalTick
}

// MemoryComponent - туман войны. Создается лениво при первом обновлении.
type MemoryComponent struct {
	Map    *MemoryMap    `json:"map"`
	Things []ThingMemory `json:"things"`
}

type Thing struct {
	// Идентификация
	ID   ThingID   `json:"id"`
	Type ThingType `json:"type"`
	Name string    `json:"name"`

	// ControllerID - ID сессии, которая управляет этой сущностью.
	// Если пусто - управляется AI.
	ControllerID string `json:"controllerId,omitempty"`

	Pos        HexPosition `json:"pos"`
	Lifepoints uint8       `json:"lifepoints"` // 0 - неодушевленный или мертвый

	AI     *AIComponent     `json:"ai,omitempty"`
	Fov    *FovMap          `json:"-"` // Не сериализуем: пересчитывается
	Memory *MemoryComponent `json:"memory,omitempty"`
}

// IsAlive - живые ходят, видят и являются целями для AI.
func (t *Thing) IsAlive() bool {
	return t.Lifepoints > 0
}

// IsPlayer - сущностью управляет клиент.
func (t *Thing) IsPlayer() bool {
	return t.ControllerID != ""
}

// CanSee проверяет клетку по последнему посчитанному полю зрения.
func (t *Thing) CanSee(p HexPosition) bool {
	if t.Fov == nil {
		return false
	}
	v, ok := t.Fov.At(p)
	return ok && v == Visible
}

// TakeDamage снимает жизни. Возвращает true, если сущность погибла.
func (t *Thing) TakeDamage(amount uint8) bool {
	if !t.IsAlive() {
		return false
	}
	if amount >= t.Lifepoints {
		t.Lifepoints = 0
		t.Type = ThingCorpse
		t.Fov = nil // Мертвые не видят
		return true
	}
	t.Lifepoints -= amount
	return false
}
