package notifications

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleAlerter prints the blocking alerts of the console to a terminal
type ConsoleAlerter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleAlerter(w io.Writer) *ConsoleAlerter {
	return &ConsoleAlerter{w: w}
}

// Alert writes one alert line
func (c *ConsoleAlerter) Alert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "⚠ %s\n", message)
}
