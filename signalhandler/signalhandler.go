package signalhandler

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"metagallery/logging"
)

// SetupHandler reports an interrupted run before exiting. Output files still
// open at that point are left incomplete.
func SetupHandler(outputs ...string) {
	// Create a channel to receive OS signals
	sigChan := make(chan os.Signal, 1)

	// Register for specific signals
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Handle signals in a separate goroutine
	go func() {
		sig := <-sigChan
		fmt.Fprintln(os.Stderr, Notice(sig, outputs))
		logging.LogWarning("Run interrupted by %v", sig)
		logging.CloseLogger()
		os.Exit(ExitCode(sig))
	}()
}

// Notice returns the message printed when a run is interrupted
func Notice(sig os.Signal, outputs []string) string {
	msg := fmt.Sprintf("\nInterrupted (%v).", sig)
	for _, out := range outputs {
		msg += "\n  " + out + " may be incomplete"
	}
	return msg
}

// ExitCode follows the shell convention of 128 plus the signal number
func ExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
