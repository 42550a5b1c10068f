// Package logging writes the rater's diagnostics. Everything goes to the
// debug log file when one is open; notices, warnings and errors also reach
// the console so a session without --debug still explains itself.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Level tags a log line
type Level string

const (
	LevelDebug   Level = ""
	LevelInfo    Level = "INFO"
	LevelNotice  Level = "NOTICE"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
	LevelMatch   Level = "MATCH"
)

var (
	mu          sync.Mutex
	debugLogger *log.Logger
	logFile     *os.File
	console     io.Writer = os.Stderr
)

// SetupLogger opens path for appending and sends every level there.
// Calling it again while a file is open is a no-op.
func SetupLogger(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}
	logFile = f
	debugLogger = log.New(f, "", log.LstdFlags)
	debugLogger.Printf("--- imagerank session log opened %s ---", time.Now().Format(time.RFC3339))
	return nil
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return
	}
	debugLogger.Printf("--- imagerank session log closed %s ---", time.Now().Format(time.RFC3339))
	logFile.Close()
	logFile = nil
	debugLogger = nil
}

// SetConsole redirects console output and returns the previous writer
func SetConsole(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := console
	console = w
	return prev
}

// Enabled reports whether a debug log file is open
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugLogger != nil
}

func emit(level Level, toConsole bool, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if level != LevelDebug {
		msg = string(level) + ": " + msg
	}
	if debugLogger != nil {
		debugLogger.Print(msg)
	}
	if toConsole && console != nil {
		fmt.Fprintln(console, msg)
	}
}

// DebugLog records a message in the log file only
func DebugLog(format string, args ...interface{}) { emit(LevelDebug, false, format, args...) }

// LogInfo records a message in the log file only
func LogInfo(format string, args ...interface{}) { emit(LevelInfo, false, format, args...) }

// Notice is information the user should see on every run
func Notice(format string, args ...interface{}) { emit(LevelNotice, true, format, args...) }

// LogWarning reports a recoverable problem
func LogWarning(format string, args ...interface{}) { emit(LevelWarning, true, format, args...) }

// LogError reports a failure
func LogError(format string, args ...interface{}) { emit(LevelError, true, format, args...) }

// LogMatch records one applied comparison
func LogMatch(left, right, result string, newLeft, newRight, penalty float64) {
	emit(LevelMatch, false, "%s vs %s -> %s (new %.3f / %.3f, penalty %.3f)",
		left, right, result, newLeft, newRight, penalty)
}
