package replybot

import (
	log "github.com/sirupsen/logrus"
)

// LogrusObserver writes match and cancellation events to a logrus entry.
type LogrusObserver struct {
	Entry *log.Entry
}

// NewLogrusObserver returns an observer that logs through the standard logrus logger.
func NewLogrusObserver() *LogrusObserver {
	return &LogrusObserver{Entry: log.NewEntry(log.StandardLogger())}
}

func (o *LogrusObserver) Observe(event string, pattern string, msg Message) {
	entry := o.Entry.WithFields(log.Fields{
		"event":   event,
		"pattern": pattern,
	})
	if msg != nil {
		entry = entry.WithField("channel", msg.ChannelID())
	}
	if event == EventCancelled {
		entry.Debug("[Replybot] Rule cancelled.")
		return
	}
	entry.Info("[Replybot] Rule matched.")
}
