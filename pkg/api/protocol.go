package api

// --- СЕРВЕР -> КЛИЕНТ ---

// ViewUpdate это корневой объект, который сервер отправляет клиенту.
// Он представляет собой "снимок" мира глазами одной сущности.
// Отправляется после каждого хода, пока клиент подписан на сущность.
type ViewUpdate struct {
	// Type тип сообщения. На данный момент всегда "UPDATE".
	Type string `json:"type"`

	// Tick текущее время уровня.
	Tick int `json:"tick"`

	// ActiveThingID ID сущности, чей ход сейчас.
	// Если совпадает с MyThingID, сервер ждет команду от клиента.
	ActiveThingID string `json:"activeThingId,omitempty"`

	// MyThingID ID сущности, на которую подписан клиент.
	MyThingID string `json:"myThingId"`

	// Grid метаданные о размере карты.
	Grid GridMeta `json:"grid"`

	// Map строки карты памяти сущности, по строке на ряд.
	// Пробел - клетка, которую сущность еще ни разу не видела.
	// Нечетные ряды на гекс-сетке сдвинуты на полклетки вправо.
	Map []string `json:"map"`

	// Visible клетки, видимые прямо сейчас, по строке на ряд ('.' - видно, ' ' - нет).
	Visible []string `json:"visible,omitempty"`

	// Things сущности в поле зрения.
	Things []ThingView `json:"things"`

	// Remembered предметы и трупы, которые сущность помнит вне поля зрения.
	Remembered []RememberedView `json:"remembered,omitempty"`

	// Logs последние сообщения уровня.
	Logs []LogEntry `json:"logs,omitempty"`
}

// GridMeta содержит размер карты.
type GridMeta struct {
	Length int `json:"length"`
}

// PosView - координаты клетки (ряд Y, столбец X).
type PosView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ThingView это DTO для видимой сущности.
type ThingView struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Symbol     string  `json:"symbol"`
	Pos        PosView `json:"pos"`
	Lifepoints int     `json:"lifepoints"`
}

// RememberedView - запомненная сущность.
type RememberedView struct {
	Type   string  `json:"type"`
	Symbol string  `json:"symbol"`
	Pos    PosView `json:"pos"`
	Age    int     `json:"age"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это сообщение от клиента к серверу.
type ClientCommand struct {
	// Action название действия: MOVE или WAIT.
	Action string `json:"action"`

	// Dir направление для MOVE: клавиша (e, d, c, b, a, y) или имя (EAST, ...).
	Dir string `json:"dir,omitempty"`
}
