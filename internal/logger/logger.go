package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	instance *Logger
	once     sync.Once
)

// Logger provides TUI-safe logging functionality
type Logger struct {
	fileLogger     *log.Logger
	exchangeLogger *log.Logger
	logFile        *os.File
	exchangeFile   *os.File
	debug          bool
	mu             sync.Mutex
}

// Init initializes the global logger instance, writing under dir
func Init(dir string, debug bool) error {
	var err error
	once.Do(func() {
		instance, err = newLogger(dir, debug)
	})
	return err
}

// newLogger creates a new logger instance
func newLogger(dir string, debug bool) (*Logger, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logPath := filepath.Join(dir, "nbedit.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// AI requests and responses go to their own file, they are large
	exchangePath := filepath.Join(dir, "exchange.log")
	exchangeFile, err := os.OpenFile(exchangePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open exchange log file: %w", err)
	}

	return &Logger{
		fileLogger:     log.New(logFile, "", log.LstdFlags|log.Lshortfile),
		exchangeLogger: log.New(exchangeFile, "", log.LstdFlags),
		logFile:        logFile,
		exchangeFile:   exchangeFile,
		debug:          debug,
	}, nil
}

// NewWriterLogger builds a logger that writes everything to w. The server
// uses it with stderr, tests with a buffer.
func NewWriterLogger(w io.Writer, debug bool) *Logger {
	return &Logger{
		fileLogger:     log.New(w, "", log.LstdFlags),
		exchangeLogger: log.New(w, "", log.LstdFlags),
		debug:          debug,
	}
}

// Use replaces the global instance
func Use(l *Logger) {
	instance = l
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if instance != nil {
		instance.log("INFO", format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if instance != nil {
		instance.log("ERROR", format, args...)
	}
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if instance != nil && instance.debug {
		instance.log("DEBUG", format, args...)
	}
}

// Exchange logs AI traffic to the dedicated exchange log file
func Exchange(event string, data interface{}) {
	if instance != nil {
		instance.exchangeLog(event, data)
	}
}

// log writes a formatted message to the main log file
func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	l.fileLogger.Printf("[%s] %s", level, message)
}

func (l *Logger) exchangeLog(event string, data interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.exchangeLogger.Printf("[%s] %+v", event, data)
}

// Close closes both log files
func Close() error {
	if instance != nil {
		var err1, err2 error
		if instance.logFile != nil {
			err1 = instance.logFile.Close()
		}
		if instance.exchangeFile != nil {
			err2 = instance.exchangeFile.Close()
		}
		if err1 != nil {
			return err1
		}
		return err2
	}
	return nil
}

// SetOutput allows changing the output destination (useful for testing)
func SetOutput(w io.Writer) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.fileLogger.SetOutput(w)
	}
}
