package flow

// NodeType identifies which executor handles a node.
//
// The set of types is closed: dispatch is a registry lookup, and a node
// whose type has no registered executor fails with CodeNodeNotFound at
// execution time (the rest of the run continues).
type NodeType string

// Built-in node types. Each has a corresponding executor in the exec package.
const (
	NodeShell       NodeType = "shell"
	NodeAIPrompt    NodeType = "ai_prompt"
	NodeDatabase    NodeType = "database"
	NodeTradeAgent  NodeType = "trade_agent"
	NodeHTTPRequest NodeType = "http_request"
	NodeFileRead    NodeType = "file_read"
	NodeFileWrite   NodeType = "file_write"
	NodeTransform   NodeType = "transform"
	NodeFilter      NodeType = "filter"
	NodeConditional NodeType = "conditional"
	NodeLoop        NodeType = "loop"
	NodeAggregator  NodeType = "aggregator"
	NodeMerge       NodeType = "merge"
	NodeLog         NodeType = "log"
	NodeNotify      NodeType = "notify"
)

// Node is a single typed step in a workflow.
//
// Config is a flat string-to-string map. Values may contain ${node.key}
// placeholders that reference upstream outputs; the engine resolves them
// through a single interpolation pass before the executor runs (see
// RunContext.ResolveConfig). Executors never read the run context for
// config values directly.
type Node struct {
	// ID is unique within a workflow.
	ID string `json:"id"`

	// Type selects the executor.
	Type NodeType `json:"type"`

	// Label is a human-readable display name.
	Label string `json:"label,omitempty"`

	// Config holds the node's type-specific settings.
	Config map[string]string `json:"config,omitempty"`
}

// Edge is a dependency: Target may not run until Source has completed.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Workflow is an immutable description of a run: nodes, edges, metadata.
//
// Build a workflow with AddNode/AddEdge, then hand it to an Engine or
// Manager. The declaration order of nodes is preserved and used by the
// scheduler to break ties, which makes execution order reproducible.
//
// Example:
//
//	w := flow.NewWorkflow("wf-1", "greet")
//	w.AddNode(&flow.Node{ID: "hello", Type: flow.NodeShell, Config: map[string]string{"cmd": "echo hi"}})
//	w.AddNode(&flow.Node{ID: "shout", Type: flow.NodeTransform, Config: map[string]string{
//	    "operation": "uppercase",
//	    "input":     "${hello.stdout}",
//	}})
//	w.AddEdge("hello", "shout")
type Workflow struct {
	// ID identifies the workflow; it also keys the checkpoint history.
	ID string

	// Name is a human-readable title.
	Name string

	nodes map[string]*Node
	order []string
	edges []Edge
}

// NewWorkflow creates an empty workflow.
func NewWorkflow(id, name string) *Workflow {
	return &Workflow{
		ID:    id,
		Name:  name,
		nodes: make(map[string]*Node),
	}
}

// AddNode registers a node. Declaration order is preserved.
//
// Returns an error if the node is nil, has an empty ID, or duplicates an
// existing ID.
func (w *Workflow) AddNode(n *Node) error {
	if n == nil {
		return NewError(CodeInvalidWorkflow, "node cannot be nil")
	}
	if n.ID == "" {
		return NewError(CodeInvalidWorkflow, "node ID cannot be empty")
	}
	if _, exists := w.nodes[n.ID]; exists {
		return NewError(CodeInvalidWorkflow, "duplicate node ID: "+n.ID)
	}
	w.nodes[n.ID] = n
	w.order = append(w.order, n.ID)
	return nil
}

// AddEdge declares that target depends on source.
//
// Node existence is not checked here (lazy validation, so graphs can be
// constructed in any order); Validate reports dangling references.
func (w *Workflow) AddEdge(source, target string) {
	w.edges = append(w.edges, Edge{Source: source, Target: target})
}

// Node retrieves a node by ID.
func (w *Workflow) Node(id string) (*Node, bool) {
	n, ok := w.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (w *Workflow) Nodes() []*Node {
	out := make([]*Node, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.nodes[id])
	}
	return out
}

// Edges returns the declared dependencies.
func (w *Workflow) Edges() []Edge {
	out := make([]Edge, len(w.edges))
	copy(out, w.edges)
	return out
}

// Len returns the number of nodes.
func (w *Workflow) Len() int {
	return len(w.order)
}
