package flow

// Validate checks a workflow for structural defects: edges that reference
// unknown nodes, and cycles. It runs once, before any node executes; a
// rejected workflow produces zero node results and has no side effects.
func Validate(w *Workflow) error {
	if w == nil {
		return NewError(CodeInvalidWorkflow, "workflow cannot be nil")
	}
	for _, e := range w.edges {
		if _, ok := w.nodes[e.Source]; !ok {
			return NewError(CodeInvalidWorkflow, "edge references unknown source node: "+e.Source)
		}
		if _, ok := w.nodes[e.Target]; !ok {
			return NewError(CodeInvalidWorkflow, "edge references unknown target node: "+e.Target)
		}
	}
	_, err := TopoSort(w)
	return err
}

// TopoSort computes a deterministic execution order: for every edge
// (u -> v), u appears before v. Nodes with no remaining dependency are
// scheduled in declaration order, so the order is reproducible for a
// fixed input.
//
// Uses Kahn's algorithm over in-degrees. Returns CodeInvalidWorkflow if
// the graph contains a cycle or an edge references an unknown node.
func TopoSort(w *Workflow) ([]string, error) {
	if w == nil {
		return nil, NewError(CodeInvalidWorkflow, "workflow cannot be nil")
	}

	indegree := make(map[string]int, len(w.order))
	for _, id := range w.order {
		indegree[id] = 0
	}
	for _, e := range w.edges {
		if _, ok := w.nodes[e.Source]; !ok {
			return nil, NewError(CodeInvalidWorkflow, "edge references unknown source node: "+e.Source)
		}
		if _, ok := w.nodes[e.Target]; !ok {
			return nil, NewError(CodeInvalidWorkflow, "edge references unknown target node: "+e.Target)
		}
		indegree[e.Target]++
	}

	order := make([]string, 0, len(w.order))
	scheduled := make(map[string]bool, len(w.order))

	for len(order) < len(w.order) {
		// Pick the first declared node with no remaining dependencies.
		// Scanning declaration order on every round keeps ties stable.
		next := ""
		for _, id := range w.order {
			if !scheduled[id] && indegree[id] == 0 {
				next = id
				break
			}
		}
		if next == "" {
			for _, id := range w.order {
				if !scheduled[id] {
					return nil, NewError(CodeInvalidWorkflow, "workflow contains a cycle involving node "+id)
				}
			}
		}

		scheduled[next] = true
		order = append(order, next)
		for _, e := range w.edges {
			if e.Source == next {
				indegree[e.Target]--
			}
		}
	}

	return order, nil
}
