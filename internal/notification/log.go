package notification

import (
	"fmt"
	"strings"

	"todotxt/internal/task"
	"todotxt/internal/utils"
)

// LogEvents writes every event on b to the debug log, and errors to the
// error log. It returns the unsubscribe function.
func LogEvents(b *Bus, logger *utils.Logger) func() {
	return b.SubscribeAll(func(ev Event) {
		if ev.Type == Error {
			logger.Error("%s", describe(ev))
			return
		}
		logger.Debug("%s", describe(ev))
	})
}

// describe formats an event as "[TYPE] value".
func describe(ev Event) string {
	typeStr := strings.ToUpper(string(ev.Type))
	switch v := ev.Value.(type) {
	case nil:
		return fmt.Sprintf("[%s]", typeStr)
	case error:
		return fmt.Sprintf("[%s] %s", typeStr, v.Error())
	case []string:
		return fmt.Sprintf("[%s] %s", typeStr, strings.Join(v, ", "))
	case []*task.Task:
		return fmt.Sprintf("[%s] %d tasks", typeStr, len(v))
	default:
		return fmt.Sprintf("[%s] %v", typeStr, v)
	}
}
