package selection

import (
	"context"
	"errors"
	"sync"
	"testing"

	"kairosconsole/internal/models"
	"kairosconsole/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	clocks []models.Relogio
	err    error
	calls  int
}

func (s *stubLister) ListClocks(ctx context.Context) ([]models.Relogio, error) {
	s.calls++
	return s.clocks, s.err
}

func loadedSelector(t *testing.T) *Selector {
	t.Helper()
	s := NewSelector(testutil.SampleGroups())
	require.NoError(t, s.Load(context.Background(), &stubLister{clocks: testutil.SampleClocks()}))
	return s
}

func TestSelector_Load(t *testing.T) {
	s := loadedSelector(t)

	assert.Len(t, s.Clocks(), 4)
	assert.Empty(t, s.Selected())
	assert.Empty(t, s.LoadError())
}

func TestSelector_LoadFailureLeavesListEmpty(t *testing.T) {
	s := loadedSelector(t)
	s.SelectAll()

	err := s.Load(context.Background(), &stubLister{err: errors.New("connection refused")})
	require.Error(t, err)

	assert.Empty(t, s.Clocks())
	assert.Empty(t, s.Selected())
	assert.Equal(t, LoadErrorMessage, s.LoadError())

	// a later successful load clears the error
	require.NoError(t, s.Load(context.Background(), &stubLister{clocks: testutil.SampleClocks()}))
	assert.Empty(t, s.LoadError())
}

func TestSelector_ToggleGroupCascadesOnlyToGroupMembers(t *testing.T) {
	s := loadedSelector(t)
	s.SetClock(4, true)

	s.ToggleGroup("Matriz", true)
	assert.Equal(t, []int{1, 2, 3, 4}, s.Selected())
	assert.True(t, s.IsGroupChecked("Matriz"))

	s.ToggleGroup("Matriz", false)
	// clock 4 is outside the group and keeps its state
	assert.Equal(t, []int{4}, s.Selected())
	assert.False(t, s.IsGroupChecked("Matriz"))
}

func TestSelector_ToggleGroupIgnoresUnlistedIds(t *testing.T) {
	s := loadedSelector(t)

	s.ToggleGroup("Logística", true)
	assert.Equal(t, []int{3, 4}, s.Selected())
	assert.False(t, s.IsChecked(99))

	s.ToggleGroup("Inexistente", true)
	assert.False(t, s.IsGroupChecked("Inexistente"))
}

func TestSelector_SelectAllAndDeselectAll(t *testing.T) {
	s := loadedSelector(t)
	s.ToggleGroup("Matriz", true)

	s.SelectAll()
	assert.Equal(t, []int{1, 2, 3, 4}, s.Selected())
	assert.True(t, s.IsGroupChecked("Matriz"))

	s.DeselectAll()
	assert.Empty(t, s.Selected())
	assert.False(t, s.IsGroupChecked("Matriz"))
}

func TestSelector_SetClockIgnoresUnknownIds(t *testing.T) {
	s := loadedSelector(t)
	s.SetClock(42, true)
	s.SetClock(2, true)

	assert.Equal(t, []int{2}, s.Selected())
}

func TestSelector_ApplyForm(t *testing.T) {
	t.Run("newly checked group cascades", func(t *testing.T) {
		s := loadedSelector(t)
		s.ApplyForm([]int{4}, nil, []string{"Matriz"})

		assert.Equal(t, []int{1, 2, 3, 4}, s.Selected())
		assert.True(t, s.IsGroupChecked("Matriz"))
	})

	t.Run("unchecked group clears its clocks", func(t *testing.T) {
		s := loadedSelector(t)
		s.ApplyForm([]int{1, 2, 3, 4}, []string{"Matriz"}, nil)

		assert.Equal(t, []int{4}, s.Selected())
		assert.False(t, s.IsGroupChecked("Matriz"))
	})

	t.Run("changed group wins over clocks sent with it", func(t *testing.T) {
		s := loadedSelector(t)
		s.ApplyForm([]int{1, 3}, nil, []string{"Matriz"})

		assert.Equal(t, []int{1, 2, 3}, s.Selected())
	})

	t.Run("unchanged group does not override individual clocks", func(t *testing.T) {
		s := loadedSelector(t)
		s.ApplyForm([]int{1}, []string{"Matriz"}, []string{"Matriz"})

		assert.Equal(t, []int{1}, s.Selected())
		assert.True(t, s.IsGroupChecked("Matriz"))
	})
}

func TestSelector_SetGroupsDropsStaleGroupState(t *testing.T) {
	s := loadedSelector(t)
	s.ToggleGroup("Matriz", true)
	s.ToggleGroup("Logística", true)

	s.SetGroups(models.ClockGroups{"Matriz": {1}})

	assert.True(t, s.IsGroupChecked("Matriz"))
	assert.False(t, s.IsGroupChecked("Logística"))
	assert.Equal(t, []string{"Matriz"}, s.Groups().Names())
}

func TestSelector_Snapshot(t *testing.T) {
	s := loadedSelector(t)
	s.ToggleGroup("Matriz", true)

	snap := s.Snapshot()
	assert.Len(t, snap.Clocks, 4)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, snap.Checked)
	assert.Equal(t, map[string]bool{"Matriz": true}, snap.CheckedGroups)

	// mutating the snapshot does not leak back
	snap.Checked[4] = true
	assert.False(t, s.IsChecked(4))
}

func TestSelector_ConcurrentUse(t *testing.T) {
	s := loadedSelector(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.ToggleGroup("Matriz", true)
			} else {
				s.Selected()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3}, s.Selected())
}
