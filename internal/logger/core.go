package logger

import (
	"go.uber.org/zap/zapcore"
)

// RingCore is a custom Zap Core that intercepts logs
type RingCore struct {
	zapcore.Core
	writer *RingWriter
}

// NewRingCore wraps an existing core (like console logger) and adds the
// in-memory ring sink
func NewRingCore(baseCore zapcore.Core, writer *RingWriter) zapcore.Core {
	return &RingCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *RingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	// entry.Caller.Function is populated because the logger is built with
	// AddCaller()
	c.writer.Add(LogEntry{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
		Caller:  entry.Caller.Function,
	})

	// Call the underlying core (so it still prints to Console/File)
	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *RingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
