package selection

import (
	"context"
	"log/slog"
	"sync"

	"kairosconsole/internal/models"
)

// LoadErrorMessage is shown in place of the clock list when fetching fails
const LoadErrorMessage = "Falha ao carregar a lista de relógios. Verifique a conexão."

// ClockLister fetches the clocks from the backend
type ClockLister interface {
	ListClocks(ctx context.Context) ([]models.Relogio, error)
}

// Selector holds the clock checkboxes and the group checkboxes of the console
type Selector struct {
	mu            sync.RWMutex
	clocks        []models.Relogio
	listed        map[int]bool
	checked       map[int]bool
	groups        models.ClockGroups
	checkedGroups map[string]bool
	loadErr       string
}

func NewSelector(groups models.ClockGroups) *Selector {
	s := &Selector{
		listed:        make(map[int]bool),
		checked:       make(map[int]bool),
		checkedGroups: make(map[string]bool),
	}
	s.SetGroups(groups)
	return s
}

// Load replaces the clock list. On failure the list is left empty and the
// inline error is recorded; the error is also returned for logging.
func (s *Selector) Load(ctx context.Context, lister ClockLister) error {
	clocks, err := lister.ListClocks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.checked = make(map[int]bool)
	s.checkedGroups = make(map[string]bool)

	if err != nil {
		slog.Error("failed to fetch clocks", "error", err)
		s.clocks = nil
		s.listed = make(map[int]bool)
		s.loadErr = LoadErrorMessage
		return err
	}

	s.clocks = clocks
	s.listed = make(map[int]bool, len(clocks))
	for _, clock := range clocks {
		s.listed[clock.RelogioNumero] = true
	}
	s.loadErr = ""

	slog.Debug("clock list loaded", "clocks", len(clocks))
	return nil
}

// SetGroups swaps the group definitions, keeping the check state of groups that survive
func (s *Selector) SetGroups(groups models.ClockGroups) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(models.ClockGroups, len(groups))
	for name, ids := range groups {
		copied[name] = append([]int(nil), ids...)
	}
	s.groups = copied

	for name := range s.checkedGroups {
		if _, ok := copied[name]; !ok {
			delete(s.checkedGroups, name)
		}
	}
}

// SetClock checks or unchecks one listed clock. Unknown ids are ignored.
func (s *Selector) SetClock(id int, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.listed[id] {
		return
	}
	s.checked[id] = checked
}

// ToggleGroup cascades the group checkbox to every listed clock in the group,
// leaving the other clocks as they are.
func (s *Selector) ToggleGroup(name string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, ok := s.groups[name]
	if !ok {
		return
	}
	s.checkedGroups[name] = checked

	for _, id := range ids {
		if s.listed[id] {
			s.checked[id] = checked
		}
	}
}

// SelectAll checks every listed clock. Group checkboxes are untouched.
func (s *Selector) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.listed {
		s.checked[id] = true
	}
}

// DeselectAll unchecks every clock and every group
func (s *Selector) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checked = make(map[int]bool)
	s.checkedGroups = make(map[string]bool)
}

// Apply resets the checkboxes to a submitted form: the listed clocks in ids
// are checked and the named groups are marked, without cascading.
func (s *Selector) Apply(ids []int, groups []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checked = make(map[int]bool)
	for _, id := range ids {
		if s.listed[id] {
			s.checked[id] = true
		}
	}

	s.checkedGroups = make(map[string]bool)
	for _, name := range groups {
		if _, ok := s.groups[name]; ok {
			s.checkedGroups[name] = true
		}
	}
}

// ApplyForm replays a submitted clock form: the checkboxes are restored from
// ids and previous, then every group whose checkbox changed between previous
// and current is toggled, cascading to its clocks.
func (s *Selector) ApplyForm(ids []int, previous, current []string) {
	s.Apply(ids, previous)

	was := make(map[string]bool, len(previous))
	for _, name := range previous {
		was[name] = true
	}
	now := make(map[string]bool, len(current))
	for _, name := range current {
		now[name] = true
	}

	for _, name := range s.Groups().Names() {
		if was[name] != now[name] {
			s.ToggleGroup(name, now[name])
		}
	}
}

// Selected returns the checked clock ids in listing order
func (s *Selector) Selected() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int
	for _, clock := range s.clocks {
		if s.checked[clock.RelogioNumero] {
			ids = append(ids, clock.RelogioNumero)
		}
	}
	return ids
}

func (s *Selector) IsChecked(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checked[id]
}

func (s *Selector) IsGroupChecked(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkedGroups[name]
}

// Clocks returns the listed clocks
func (s *Selector) Clocks() []models.Relogio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Relogio(nil), s.clocks...)
}

// Groups returns a copy of the group definitions
func (s *Selector) Groups() models.ClockGroups {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(models.ClockGroups, len(s.groups))
	for name, ids := range s.groups {
		copied[name] = append([]int(nil), ids...)
	}
	return copied
}

// LoadError is the inline message left by the last failed Load, empty otherwise
func (s *Selector) LoadError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Snapshot is an immutable view used for rendering
type Snapshot struct {
	Clocks        []models.Relogio
	Checked       map[int]bool
	Groups        models.ClockGroups
	CheckedGroups map[string]bool
	LoadError     string
}

func (s *Selector) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Clocks:        append([]models.Relogio(nil), s.clocks...),
		Checked:       make(map[int]bool, len(s.checked)),
		Groups:        make(models.ClockGroups, len(s.groups)),
		CheckedGroups: make(map[string]bool, len(s.checkedGroups)),
		LoadError:     s.loadErr,
	}
	for id, on := range s.checked {
		if on {
			snap.Checked[id] = true
		}
	}
	for name, ids := range s.groups {
		snap.Groups[name] = append([]int(nil), ids...)
	}
	for name, on := range s.checkedGroups {
		if on {
			snap.CheckedGroups[name] = true
		}
	}
	return snap
}
