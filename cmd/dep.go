package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planline/internal/models"
	"planline/internal/schedule"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Dependency management",
	Long: `Every task depends on at most one other task and starts on the first
business day after it ends.`,
}

var depSetCmd = &cobra.Command{
	Use:   "set <id> <dependency-id>",
	Short: "Make the first task wait on the second",
	Long: `Make a task wait on another one.

Example: if t5 cannot start until t3 is done:
  pln dep set t5 t3

Dependencies on unknown tasks and edges that would form a cycle are refused.`,
	Args: cobra.ExactArgs(2),
	RunE: runDepSet,
}

var depClearCmd = &cobra.Command{
	Use:   "clear <id>",
	Short: "Remove a task's dependency so it starts at kickoff",
	Args:  cobra.ExactArgs(1),
	RunE:  runDepClear,
}

var depTreeCmd = &cobra.Command{
	Use:   "tree [id]",
	Short: "Show the dependency tree (from the root task by default)",
	Args:  cobra.RangeArgs(0, 1),
	RunE:  runDepTree,
}

func init() {
	rootCmd.AddCommand(depCmd)
	depCmd.AddCommand(depSetCmd)
	depCmd.AddCommand(depClearCmd)
	depCmd.AddCommand(depTreeCmd)
}

func runDepSet(cmd *cobra.Command, args []string) error {
	return setDependency(args[0], args[1])
}

func runDepClear(cmd *cobra.Command, args []string) error {
	return setDependency(args[0], "")
}

func setDependency(id, dep string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	task, ok := p.find(id)
	if !ok {
		return fmt.Errorf("task '%s' not found (use 'pln list' to see available tasks)", id)
	}
	if err := schedule.CheckDependency(p.Tasks, id, dep); err != nil {
		return fmt.Errorf("cannot set dependency of '%s': %w", id, err)
	}
	before := *task
	task.Dependency = strings.TrimSpace(dep)
	if *task == before {
		return reportTask(p, id, "Unchanged")
	}
	if err := saveTask(before, *task); err != nil {
		return err
	}
	return reportTask(p, id, "Updated")
}

type depNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	Children []*depNode `json:"children,omitempty"`
}

func runDepTree(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}

	var roots []string
	if len(args) > 0 {
		if _, ok := p.find(args[0]); !ok {
			return fmt.Errorf("task '%s' not found (use 'pln list' to see available tasks)", args[0])
		}
		roots = []string{args[0]}
	} else {
		// tasks with no dependency, or whose dependency is unknown
		idx := models.Index(p.Tasks)
		for i := range p.Tasks {
			t := &p.Tasks[i]
			if _, known := idx[t.DependencyID()]; !t.HasDependency() || !known || t.ID == p.Project.RootID {
				roots = append(roots, t.ID)
			}
		}
	}

	seen := make(map[string]bool)
	var build func(id string) *depNode
	build = func(id string) *depNode {
		t, _ := p.find(id)
		n := &depNode{ID: t.ID, Name: t.Name, Status: t.Status}
		if seen[id] {
			return n
		}
		seen[id] = true
		for _, child := range schedule.Dependents(p.Tasks, id) {
			if child == p.Project.RootID {
				continue
			}
			n.Children = append(n.Children, build(child))
		}
		return n
	}

	var nodes []*depNode
	for _, id := range roots {
		nodes = append(nodes, build(id))
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"roots": nodes})
		return nil
	}
	for _, n := range nodes {
		printDepNode(n, "", true, true)
	}
	if cycle := schedule.DetectCycle(p.Tasks); len(cycle) > 0 {
		fmt.Printf("\nDependency cycle (not shown above): %s\n", strings.Join(cycle, " -> "))
	}
	return nil
}

func printDepNode(n *depNode, prefix string, last, top bool) {
	branch := ""
	childPrefix := prefix
	if !top {
		if last {
			branch = "└── "
			childPrefix += "    "
		} else {
			branch = "├── "
			childPrefix += "│   "
		}
	}
	fmt.Printf("%s%s[%s] %s - %s\n", prefix, branch, n.ID, models.StatusLabel(n.Status), n.Name)
	for i, c := range n.Children {
		printDepNode(c, childPrefix, i == len(n.Children)-1, false)
	}
}
