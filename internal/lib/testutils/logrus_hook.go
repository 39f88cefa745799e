package testutils

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// SimpleLogrusHook records the entries of the levels it's hooked to, so
// tests can assert on what was logged.
type SimpleLogrusHook struct {
	HookedLevels []logrus.Level
	mutex        sync.Mutex
	messageCache []logrus.Entry
}

var _ logrus.Hook = &SimpleLogrusHook{}

// NewLogHook creates a hook for the given levels, all of them by default.
func NewLogHook(levels ...logrus.Level) *SimpleLogrusHook {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	return &SimpleLogrusHook{HookedLevels: levels}
}

// Levels implements logrus.Hook.
func (smh *SimpleLogrusHook) Levels() []logrus.Level {
	return smh.HookedLevels
}

// Fire implements logrus.Hook.
func (smh *SimpleLogrusHook) Fire(e *logrus.Entry) error {
	smh.mutex.Lock()
	defer smh.mutex.Unlock()
	smh.messageCache = append(smh.messageCache, *e)
	return nil
}

// Drain returns the recorded entries and forgets them.
func (smh *SimpleLogrusHook) Drain() []logrus.Entry {
	smh.mutex.Lock()
	defer smh.mutex.Unlock()
	res := smh.messageCache
	smh.messageCache = []logrus.Entry{}
	return res
}

// Lines drains the hook and returns the messages only.
func (smh *SimpleLogrusHook) Lines() []string {
	entries := smh.Drain()
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Message
	}
	return lines
}

// LogContains reports whether any of the entries has the given level and a
// message containing contents.
func LogContains(entries []logrus.Entry, level logrus.Level, contents string) bool {
	return len(FilterEntries(entries, level, contents)) > 0
}

// FilterEntries returns the entries with the given level and a message
// containing contents.
func FilterEntries(entries []logrus.Entry, level logrus.Level, contents string) []logrus.Entry {
	filtered := make([]logrus.Entry, 0)
	for _, entry := range entries {
		if entry.Level == level && strings.Contains(entry.Message, contents) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
