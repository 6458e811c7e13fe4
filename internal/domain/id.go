package domain

import (
	"fmt"
	"strconv"
)

// ThingID - упакованный идентификатор (Type + Index)
type ThingID uint64

// Конфигурация битов
const (
	bitsIndex = 48
	bitsType  = 8

	shiftType = bitsIndex

	maskIndex = (1 << bitsIndex) - 1
	maskType  = (1 << bitsType) - 1
)

// PackThingID создает ID из компонентов
func PackThingID(t ThingType, index uint64) ThingID {
	id := index & maskIndex
	id |= (uint64(t) & maskType) << shiftType
	return ThingID(id)
}

func (id ThingID) Type() ThingType {
	return ThingType((id >> shiftType) & maskType)
}

func (id ThingID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id ThingID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *ThingID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = ThingID(val)
	return nil
}

// ParseThingID - для query-параметров (?thing=...)
func ParseThingID(s string) (ThingID, error) {
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid thing id %q: %w", s, err)
	}
	return ThingID(val), nil
}

// String для логов: [Type:Idx]
func (id ThingID) String() string {
	return fmt.Sprintf("[%s:%d]", id.Type(), id.Index())
}
