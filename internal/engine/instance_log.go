package engine

import (
	"fmt"
	"time"

	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// maxLogs - сколько последних записей хранит инстанс
const maxLogs = 50

// AddLog добавляет лог в историю инстанса
func (i *Instance) AddLog(text, logType string) {
	i.logSeq++
	i.Logs = append(i.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", i.CurrentTick, i.logSeq),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(i.Logs) > maxLogs {
		i.Logs = i.Logs[len(i.Logs)-maxLogs:]
	}
	logger.Log.WithFields(logrus.Fields{
		"tick":      i.CurrentTick,
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
}
