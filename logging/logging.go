package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

var (
	debugLogger *log.Logger
	logFile     *os.File
	mu          sync.Mutex
	isSetup     bool
)

// SetupLogger initializes the debug logger with the specified log file.
// Until it is called, DebugLog and friends discard their output.
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Check if logger is already set up
	if isSetup {
		return nil
	}

	// Open log file
	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	// Create logger with timestamp prefix
	debugLogger = log.New(logFile, "", log.LstdFlags)

	// Log startup information
	debugLogger.Printf("--- MetaGallery Debug Log Started at %s ---\n", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		debugLogger.Printf("--- MetaGallery Debug Log Closed at %s ---\n", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		debugLogger = nil
		isSetup = false
	}
}

// logf writes one line to the debug log; it does nothing while the log is closed
func logf(prefix, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf(prefix+format, args...)
	}
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	logf("INFO: ", format, args...)
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	logf("", format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logf("ERROR: ", format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	logf("WARNING: ", format, args...)
}

// LogImageProcessed logs the outcome of reading one image
func LogImageProcessed(path string, success bool, errMsg string) {
	if success {
		logf("DECODED: ", "%s", path)
		return
	}
	logf("SKIPPED: ", "%s - Reason: %s", path, errMsg)
}
