package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (c ClientCommand) Validate() error {
	switch c.Action {
	case "":
		return errors.New("action is required")
	case "MOVE":
		if c.Dir == "" {
			return errors.New("dir is required for MOVE")
		}
	}
	return nil
}
