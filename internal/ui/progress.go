package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner shows activity during a long operation. It only animates on a
// color-capable terminal; otherwise it just prints the final status.
type Spinner struct {
	w       io.Writer
	frames  []string
	current int
	message string
	animate bool
	stop    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewSpinner creates a spinner writing to w
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		frames:  []string{"|", "/", "-", "\\"},
		message: message,
		animate: supportsColor,
		stop:    make(chan struct{}),
	}
}

// Start begins the animation
func (s *Spinner) Start() {
	if !s.animate {
		return
	}
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					fmt.Fprintf(s.w, "\r%s %s%s",
						ColorProgress(s.frames[s.current]),
						s.message,
						strings.Repeat(" ", 20),
					)
					s.current = (s.current + 1) % len(s.frames)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and prints the outcome. Calling it twice is a no-op.
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stop)

	if s.animate {
		fmt.Fprint(s.w, "\r\033[K")
	}
	if success {
		fmt.Fprintf(s.w, "%s %s\n", ColorSuccess("OK"), message)
	} else {
		fmt.Fprintf(s.w, "%s %s\n", ColorError("FAILED"), message)
	}
}

// UpdateMessage updates the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
