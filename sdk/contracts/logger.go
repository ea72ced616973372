package contracts

import "time"

// LogLevel represents the severity level for logging.
type LogLevel int

const (
	// InfoLevel reports playback progress: rig setup, performance start and end.
	InfoLevel LogLevel = iota
	// DebugLevel reports note transitions and backend details.
	DebugLevel
	// ErrorLevel reports clock failures and actuator write errors.
	ErrorLevel
	// WarnLevel reports conditions that degrade playback without stopping it.
	WarnLevel
	// FatalLevel reports errors that end the process.
	FatalLevel
)

// ParseLogLevel maps a level name ("debug", "info", "warn", "error", "fatal") to a LogLevel.
// Unknown names map to InfoLevel and ok is false.
func ParseLogLevel(name string) (level LogLevel, ok bool) {
	switch name {
	case "debug":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warn":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	case "fatal":
		return FatalLevel, true
	}
	return InfoLevel, false
}

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog directs log messages to the console output.
	ConsoleLog LogDestination = "console"
	// FileLog directs log messages to a file.
	FileLog LogDestination = "file"
)

// Field builds a structured log field.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Duration(key string, val time.Duration) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint32(key string, val uint32) Field
	Uint8(key string, val uint8) Field
}

// Logger records messages at different levels.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string)

	// Sync flushes buffered entries. Call it before the process exits.
	Sync() error
}
