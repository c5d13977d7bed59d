package filter

import (
	"slices"
	"strings"

	"todotxt/internal/task"
)

// Node is one entry of the filter sidebar.
type Node struct {
	Label    string
	Filter   Filter
	Count    int
	Children []Node
}

// BuildTree groups the tasks into the sidebar hierarchy. Counts only include
// completed tasks when showCompleted is set; the Complete node always counts
// them.
func BuildTree(tasks []*task.Task, showCompleted bool) []Node {
	visible := tasks
	if !showCompleted {
		visible = Apply([]Group{{IncompleteFilter{}}}, tasks)
	}

	count := func(f Filter, from []*task.Task) int {
		n := 0
		for _, t := range from {
			if f.Match(t) {
				n++
			}
		}
		return n
	}
	leaf := func(f Filter) Node {
		return Node{Label: f.Name(), Filter: f, Count: count(f, visible)}
	}

	var contexts, projects []string
	var priorities []rune
	for _, t := range visible {
		for _, c := range t.Contexts() {
			if !slices.Contains(contexts, c) {
				contexts = append(contexts, c)
			}
		}
		for _, p := range t.Projects() {
			if !slices.Contains(projects, p) {
				projects = append(projects, p)
			}
		}
		if p := t.Priority(); p != 0 && !slices.Contains(priorities, p) {
			priorities = append(priorities, p)
		}
	}
	slices.SortFunc(contexts, compareFold)
	slices.SortFunc(projects, compareFold)
	slices.Sort(priorities)

	due := leaf(HasDueDateFilter{})
	due.Children = []Node{leaf(OverdueFilter{}), leaf(DueTodayFilter{}), leaf(FutureFilter{})}

	ctxNode := Node{Label: "Contexts", Count: -1}
	for _, c := range contexts {
		ctxNode.Children = append(ctxNode.Children, leaf(ContextFilter{Context: c}))
	}
	projNode := Node{Label: "Projects", Count: -1}
	for _, p := range projects {
		projNode.Children = append(projNode.Children, leaf(ProjectFilter{Project: p}))
	}
	prioNode := Node{Label: "Priorities", Count: -1}
	for _, p := range priorities {
		prioNode.Children = append(prioNode.Children, leaf(PriorityFilter{Priority: p}))
	}

	return []Node{
		leaf(AllFilter{}),
		leaf(UncategorizedFilter{}),
		due,
		ctxNode,
		projNode,
		prioNode,
		{Label: CompleteFilter{}.Name(), Filter: CompleteFilter{}, Count: count(CompleteFilter{}, tasks)},
	}
}

// Flatten lists the nodes depth-first together with their depth. Heading
// nodes without a filter are included so a UI can render them.
func Flatten(nodes []Node) []FlatNode {
	var out []FlatNode
	var walk func(ns []Node, depth int)
	walk = func(ns []Node, depth int) {
		for _, n := range ns {
			out = append(out, FlatNode{Node: n, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
	return out
}

// FlatNode is a Node positioned in a flattened tree.
type FlatNode struct {
	Node
	Depth int
}

// Find returns the first node whose filter equals f.
func Find(nodes []Node, f Filter) (Node, bool) {
	for _, n := range Flatten(nodes) {
		if n.Filter != nil && n.Filter == f {
			return n.Node, true
		}
	}
	return Node{}, false
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
