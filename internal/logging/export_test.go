package logging

import "sync"

// resetLogger clears the global logger so Initialize can run again.
func resetLogger() {
	globalLogger.Store(nil)
	once = sync.Once{}
}
