package logger

import "sync"

// connectors holds the loggers shared by name, one per connector.
var connectors = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register installs l as the logger of the named connector. The stored
// logger is tagged with the connector name.
func Register(name string, l *Logger) {
	connectors.mu.Lock()
	defer connectors.mu.Unlock()
	connectors.loggers[name] = l.WithConnector(name)
}

// Unregister removes a logger installed by Register.
func Unregister(name string) {
	connectors.mu.Lock()
	defer connectors.mu.Unlock()
	delete(connectors.loggers, name)
}

// Get returns the logger registered for a connector, or the global logger
// tagged with the connector name. It is resolved at call time, so loggers
// obtained before Init keep the defaults.
func Get(name string) *Logger {
	connectors.mu.RLock()
	l, ok := connectors.loggers[name]
	connectors.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithConnector(name)
}
