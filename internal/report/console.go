// Package report renders scan results for people: per-file console lines,
// the closing summary and the optional log file.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// Rule separates the banner and summary from the result lines.
const Rule = "**************************************************"

// Console serializes writes so lines from concurrent tasks never interleave.
// Lines appear in completion order, not submission order.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewConsole returns a Console writing to w. Detected classifications are
// highlighted when color is set.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Result prints one per-file line: index, classification and file name.
func (c *Console) Result(index int, class, name string) {
	if c.color && strings.HasPrefix(class, "MQA") {
		class = ansiGreen + class + ansiReset
	}
	c.Printf("%3d\t%s\t%s\n", index, class, name)
}

// Printf writes a formatted message as a single unit.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...) //nolint:errcheck // Console output is best effort
}

// Banner prints the tool header, the file count and the column header.
func (c *Console) Banner(title string, files int) {
	noun := "file"
	if files != 1 {
		noun = "files"
	}
	c.Printf("%s\n%s\n%s\n", Rule, center(title, len(Rule)), Rule)
	c.Printf("Found %s %s for scanning...\n\n", humanize.Comma(int64(files)), noun)
	c.Printf("  #\tEncoding\tName\n")
}

// Summary prints the closing totals.
func (c *Console) Summary(scanned, detected int64, elapsed time.Duration) {
	c.Printf("\n%s\n", Rule)
	c.Printf("Scanned %s files\n", humanize.Comma(scanned))
	c.Printf("Found %s MQA files\n", humanize.Comma(detected))
	c.Printf("Finished in %s\n", elapsed.Round(time.Millisecond))
}

// center pads s with asterisks to width, keeping a space on each side.
func center(s string, width int) string {
	s = " " + s + " "
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat("*", left) + s + strings.Repeat("*", pad-left)
}
