// Package ui provides a spinner for slow blocking steps.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerMu     sync.Mutex
	spinnerStop   chan struct{}
	spinnerDone   chan struct{}
	spinnerActive bool
)

// spinnerEnabled reports whether animation frames should be drawn: only
// on an interactive stdout that has not been redirected or quieted.
func spinnerEnabled() bool {
	outMu.Lock()
	defer outMu.Unlock()
	if quietMode || out != os.Stdout {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// StartSpinner starts an animated spinner with a message. It is a no-op
// when output is not an interactive terminal.
//
// Parameters:
//   - message: The message to display next to the spinner
func StartSpinner(message string) {
	if !spinnerEnabled() {
		return
	}

	spinnerMu.Lock()
	defer spinnerMu.Unlock()
	if spinnerActive {
		return
	}
	spinnerActive = true
	spinnerStop = make(chan struct{})
	spinnerDone = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			frame := AccentStyle.Render(spinnerFrames[i%len(spinnerFrames)])
			outMu.Lock()
			fmt.Fprintf(out, "\r%s %s", frame, message)
			outMu.Unlock()

			select {
			case <-stop:
				outMu.Lock()
				fmt.Fprintf(out, "\r%s\r", strings.Repeat(" ", len(message)+4))
				outMu.Unlock()
				return
			case <-ticker.C:
			}
		}
	}(spinnerStop, spinnerDone)
}

// StopSpinner stops the current spinner and waits for its line to be
// cleared.
func StopSpinner() {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	if !spinnerActive {
		return
	}
	close(spinnerStop)
	<-spinnerDone
	spinnerActive = false
}
