package types

// Logger is implemented by anything able to receive the leveled log
// entries emitted by the core. A default implementation is provided on
// the definition package and is used when the client does not plug in
// its own.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warn(v ...interface{})
	Warnf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})

	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})

	Panic(v ...interface{})
	Panicf(format string, v ...interface{})

	// Enable or disable the debug entries, returning the applied value.
	ToggleDebug(value bool) bool
}
