package schedule

import (
	"errors"
	"fmt"
	"strings"

	"planline/internal/models"
)

// ErrCycle is returned when a dependency edge would close a cycle
var ErrCycle = errors.New("dependency cycle")

// Dependents returns the ids of tasks that depend directly on id, in task order
func Dependents(tasks []models.Task, id string) []string {
	var out []string
	for i := range tasks {
		if tasks[i].ID != id && tasks[i].DependencyID() == id {
			out = append(out, tasks[i].ID)
		}
	}
	return out
}

// Successors returns every task reachable from id through dependency edges,
// breadth-first. These are the tasks a deviation on id moves.
func Successors(tasks []models.Task, id string) []string {
	children := make(map[string][]string)
	for i := range tasks {
		if dep := tasks[i].DependencyID(); dep != "" {
			children[dep] = append(children[dep], tasks[i].ID)
		}
	}

	var out []string
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range children[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// DetectCycle returns the cycle path if one exists, or nil if the dependency
// graph is acyclic. Uses DFS with coloring: white (unvisited), gray (in
// progress), black (done). The path runs from a task along its dependency
// chain back to itself.
func DetectCycle(tasks []models.Task) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	idx := models.Index(tasks)
	color := make(map[string]int, len(idx))

	// single-parent edges: each task has at most one outgoing edge to follow
	for i := range tasks {
		start := tasks[i].ID
		if color[start] != white {
			continue
		}
		var path []string
		cur := start
		for {
			color[cur] = gray
			path = append(path, cur)
			dep := tasks[idx[cur]].DependencyID()
			if _, ok := idx[dep]; !ok || dep == "" {
				break
			}
			if color[dep] == gray {
				// cut the path down to the cycle itself
				for j, id := range path {
					if id == dep {
						cycle := append([]string{}, path[j:]...)
						return append(cycle, dep)
					}
				}
			}
			if color[dep] == black {
				break
			}
			cur = dep
		}
		for _, id := range path {
			color[id] = black
		}
	}
	return nil
}

// CheckDependency validates setting task id's dependency to dep. It rejects
// self-dependencies, unknown ids and edges that would close a cycle. An empty
// dep is always allowed.
func CheckDependency(tasks []models.Task, id, dep string) error {
	dep = strings.TrimSpace(dep)
	if dep == "" {
		return nil
	}
	if dep == id {
		return fmt.Errorf("task '%s' cannot depend on itself", id)
	}
	idx := models.Index(tasks)
	if _, ok := idx[dep]; !ok {
		return fmt.Errorf("dependency '%s' not found (use 'pln list' to see available tasks)", dep)
	}

	// walk up from dep; reaching id means id is already an ancestor of dep
	seen := make(map[string]bool)
	for cur := dep; cur != ""; {
		if cur == id {
			return fmt.Errorf("%w: %s", ErrCycle, formatCycle(tasks, id, dep))
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		i, ok := idx[cur]
		if !ok {
			break
		}
		cur = tasks[i].DependencyID()
	}
	return nil
}

// formatCycle renders the would-be cycle as "id -> dep -> ... -> id"
func formatCycle(tasks []models.Task, id, dep string) string {
	idx := models.Index(tasks)
	parts := []string{id}
	for cur := dep; cur != id; {
		parts = append(parts, cur)
		cur = tasks[idx[cur]].DependencyID()
	}
	return strings.Join(append(parts, id), " -> ")
}
