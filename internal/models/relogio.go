package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Relogio is a biometric time clock as listed by the backend
type Relogio struct {
	RelogioNumero int    `json:"RelogioNumero"`
	RelogioNome   string `json:"RelogioNome"`
}

// Label is the text shown next to the clock checkbox
func (r Relogio) Label() string {
	return fmt.Sprintf("%d - %s", r.RelogioNumero, r.RelogioNome)
}

// ClockGroups maps a group name to the clock ids it covers
type ClockGroups map[string][]int

// Names returns the group names in a stable order
func (g ClockGroups) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g ClockGroups) Contains(group string, id int) bool {
	for _, member := range g[group] {
		if member == id {
			return true
		}
	}
	return false
}

// CommandSet is the set of clock commands to schedule, keyed by command name
type CommandSet map[string]bool

// NewCommandSet enables every named command, ignoring blanks
func NewCommandSet(names ...string) CommandSet {
	set := CommandSet{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = true
	}
	return set
}

// Enabled returns the enabled command names sorted
func (c CommandSet) Enabled() []string {
	var names []string
	for name, on := range c {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ProcessingHeader builds the summary printed before a command dispatch:
// processing time, the selected clocks found in the listing and the enabled commands.
func ProcessingHeader(now time.Time, clocks []Relogio, selected []int, commands CommandSet) string {
	chosen := make(map[int]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}

	var clockLines []string
	for _, clock := range clocks {
		if chosen[clock.RelogioNumero] {
			clockLines = append(clockLines, fmt.Sprintf("Código: %d - Descrição: %s", clock.RelogioNumero, clock.RelogioNome))
		}
	}

	var commandLines []string
	for _, name := range commands.Enabled() {
		commandLines = append(commandLines, "- "+name)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Data de Processamento: %s\n", now.Format("02/01/2006 15:04:05")))
	b.WriteString("Relógios Selecionados:\n")
	b.WriteString(strings.Join(clockLines, "\n"))
	b.WriteString("\n\nComandos Selecionados:\n")
	b.WriteString(strings.Join(commandLines, "\n"))
	b.WriteString("\n\n")
	return b.String()
}
