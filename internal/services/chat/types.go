package chat

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Config tunes response generation.
type Config struct {
	// MaxToolRounds bounds how many tool-call rounds a single request
	// may trigger before the loop gives up.
	MaxToolRounds int
}

func DefaultConfig() Config {
	return Config{MaxToolRounds: 5}
}
