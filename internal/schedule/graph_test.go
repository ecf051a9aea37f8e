package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/models"
)

func tree() []models.Task {
	// t0 -> a -> b
	//    -> x -> y
	//         -> z
	return []models.Task{
		task("t0", "", 1),
		task("a", "t0", 1),
		task("b", "a", 1),
		task("x", "t0", 1),
		task("y", "x", 1),
		task("z", "x", 1),
	}
}

func TestDependents(t *testing.T) {
	tasks := tree()
	assert.Equal(t, []string{"a", "x"}, Dependents(tasks, "t0"))
	assert.Equal(t, []string{"y", "z"}, Dependents(tasks, "x"))
	assert.Empty(t, Dependents(tasks, "b"))
	assert.Empty(t, Dependents(tasks, "unknown"))
}

func TestSuccessors(t *testing.T) {
	tasks := tree()
	assert.Equal(t, []string{"a", "x", "b", "y", "z"}, Successors(tasks, "t0"))
	assert.Equal(t, []string{"y", "z"}, Successors(tasks, "x"))
	assert.Empty(t, Successors(tasks, "z"))
}

func TestSuccessors_TerminatesOnCycle(t *testing.T) {
	tasks := []models.Task{task("p", "q", 1), task("q", "p", 1)}
	assert.Equal(t, []string{"q"}, Successors(tasks, "p"))
}

func TestDetectCycle(t *testing.T) {
	assert.Nil(t, DetectCycle(tree()))

	tasks := append(tree(), task("p", "r", 1), task("q", "p", 1), task("r", "q", 1))
	cycle := DetectCycle(tasks)
	require.NotNil(t, cycle)
	assert.Equal(t, []string{"p", "r", "q", "p"}, cycle)
}

func TestDetectCycle_IgnoresDanglingAndEntryChains(t *testing.T) {
	tasks := []models.Task{
		task("t0", "", 1),
		task("x", "missing", 1),
		task("tail", "p", 1),
		task("p", "q", 1),
		task("q", "p", 1),
	}
	cycle := DetectCycle(tasks)
	assert.Equal(t, []string{"p", "q", "p"}, cycle)
}

func TestCheckDependency(t *testing.T) {
	tasks := tree()

	tests := []struct {
		name    string
		id      string
		dep     string
		wantErr bool
		cycle   bool
	}{
		{"clear", "b", "", false, false},
		{"whitespace clears", "b", "  ", false, false},
		{"valid move", "b", "x", false, false},
		{"sibling", "y", "z", false, false},
		{"self", "a", "a", true, false},
		{"unknown", "a", "nope", true, false},
		{"direct cycle", "a", "b", true, true},
		{"deep cycle", "t0", "z", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDependency(tasks, tt.id, tt.dep)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.cycle, errors.Is(err, ErrCycle), "errors.Is(ErrCycle): %v", err)
		})
	}
}

func TestCheckDependency_CycleMessage(t *testing.T) {
	err := CheckDependency(tree(), "x", "z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x -> z -> x")
}
