// Package ui provides message printing utilities.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	outMu     sync.Mutex
	out       io.Writer = os.Stdout
	quietMode bool
)

// SetQuietMode suppresses informational and dim output. Warnings, errors
// and success lines are always printed.
func SetQuietMode(quiet bool) {
	outMu.Lock()
	defer outMu.Unlock()
	quietMode = quiet
}

// SetOutput redirects all ui output. It returns the previous writer so
// tests can restore it.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := out
	out = w
	return prev
}

func emit(line string, suppressible bool) {
	outMu.Lock()
	defer outMu.Unlock()
	if suppressible && quietMode {
		return
	}
	fmt.Fprintln(out, line)
}

// Println prints an empty line.
func Println() {
	emit("", true)
}

// PrintSuccess prints a success message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintSuccess(format string, args ...interface{}) {
	emit(SuccessStyle.Render("[OK] "+fmt.Sprintf(format, args...)), false)
}

// PrintError prints an error message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintError(format string, args ...interface{}) {
	emit(ErrorStyle.Render("[ERR] "+fmt.Sprintf(format, args...)), false)
}

// PrintWarning prints a warning message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintWarning(format string, args ...interface{}) {
	emit(WarningStyle.Render("[WARN] "+fmt.Sprintf(format, args...)), false)
}

// PrintInfo prints an informational message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintInfo(format string, args ...interface{}) {
	emit(InfoStyle.Render("[INFO] "+fmt.Sprintf(format, args...)), true)
}

// PrintDim prints a dimmed message. Used for per-item progress lines
// such as "  - skills/dbcli-query".
func PrintDim(format string, args ...interface{}) {
	emit(DimStyle.Render(fmt.Sprintf(format, args...)), true)
}

// PrintHeader prints a section header framed by rule lines.
func PrintHeader(title string) {
	rule := TitleStyle.Render(strings.Repeat("=", 40))
	emit("", true)
	emit(rule, true)
	emit(TitleStyle.Render(title), true)
	emit(rule, true)
	emit("", true)
}

// Level is the severity of a message sent through Print.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Print routes a message to the printer for its level. It lets packages
// that only hold a Level (for example per-item reports) print without a
// switch of their own.
func Print(level Level, format string, args ...interface{}) {
	switch level {
	case LevelSuccess:
		PrintSuccess(format, args...)
	case LevelWarning:
		PrintWarning(format, args...)
	case LevelError:
		PrintError(format, args...)
	default:
		PrintInfo(format, args...)
	}
}
