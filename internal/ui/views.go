package ui

import (
	"os"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"devtail/internal/util"
)

func overlay(base, over string) string {
	// Draw over on top of base by replacing lines where over has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(over, "\n")
	// Pad to same length
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// Treat whitespace-only overlay lines as transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyText is the single exit point for text leaving the program.
func (m *Model) copyText(s string) {
	if m.cfg.Redact {
		s = util.RedactPII(s)
	}
	copyToClipboard(s)
}

// copyToClipboard tries the system clipboard first and falls back to an
// OSC52 escape, which also works over SSH and inside tmux/screen.
func copyToClipboard(s string) {
	// Remove styling before copying
	s = stripANSI(s)
	if err := clipboard.WriteAll(s); err == nil {
		return
	}
	seq := osc52.New(s)
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		seq = seq.Screen()
	}
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	// Best-effort: write to /dev/tty to avoid clobbering the app's stdout buffer
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		defer f.Close()
		_, _ = seq.WriteTo(f)
		return
	}
	_, _ = seq.WriteTo(os.Stdout)
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func runeLen(s string) int { return len([]rune(s)) }

func padRight(s string, w int) string {
	rs := []rune(s)
	if len(rs) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(rs))
}

func truncateRunes(s string, w int) string {
	rs := []rune(s)
	if len(rs) <= w {
		return s
	}
	return string(rs[:w])
}
