package iotaa

import "sync"

// Action is the body of a Basic task, run only once every requirement is
// ready and the task's own assets are not yet ready (spec §4.2).
type Action func() error

// Node is the runtime handle returned from invoking a task. It carries the
// task's declared name, assets, requirements, kind, and action, plus the
// bookkeeping the engine fills in as it runs: a cached final readiness
// verdict and a per-requirement readiness snapshot for diagnostics.
//
// Node identity is by Name: two Nodes sharing a Name are folded into one
// canonical Node during graph construction (see dedup in graph.go). A Node
// is safe to invoke its task-constructor function multiple times; only the
// graph builder's first observation of a given name is retained.
type Node struct {
	Name         string
	Kind         Kind
	Assets       AssetGroup
	Requirements NodeGroup
	Run          Action

	// protocolErr is set when the declaration that produced this Node was
	// malformed (a missing name, or a stage its kind requires left nil).
	// A Node with a non-nil protocolErr is always
	// not-ready and its action, if any, never runs.
	protocolErr error

	mu           sync.Mutex
	evaluated    bool
	finalReady   bool
	reqReadiness map[string]bool // requirement name -> final readiness, snapshot at evaluation time
	actionErr    error
}

// Ready reports the Node's final readiness verdict. Before the Node has been
// evaluated by an Executor, Ready performs a live check: for Basic and
// External tasks, the conjunction of the task's own assets; for Collection
// tasks, the conjunction of its requirements' (live) readiness. After
// evaluation, Ready returns the cached final verdict, which is what
// diagnostics and graph rendering consult (spec §4.5).
func (n *Node) Ready() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.evaluated {
		return n.finalReady
	}
	return n.liveReady()
}

// liveReady computes readiness from current external state without
// consulting or mutating the evaluation cache. Caller must hold n.mu.
func (n *Node) liveReady() bool {
	if n.protocolErr != nil {
		return false
	}
	switch n.Kind {
	case Basic, External:
		return n.Assets.ready()
	case Collection:
		for _, r := range n.Requirements.nodes() {
			if !r.Ready() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Ref returns the ref projection of the Node's assets, preserving container
// shape (scalar, sequence, or mapping; see spec §8 "Shape preservation").
func (n *Node) Ref() any {
	return n.Assets.ref()
}

// requirementNodes returns the Node's declared requirements, deduplicated by
// name within this single call, preserving first-occurrence order.
func (n *Node) requirementNodes() []*Node {
	reqs := n.Requirements.nodes()
	seen := make(map[string]bool, len(reqs))
	out := make([]*Node, 0, len(reqs))
	for _, r := range reqs {
		if r == nil || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}

// setFinal records the Node's final readiness verdict and a snapshot of its
// requirements' readiness for diagnostics. It is called exactly once per
// Node, by the Executor, during a single engine invocation.
func (n *Node) setFinal(ready bool, reqSnapshot map[string]bool, actionErr error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.evaluated = true
	n.finalReady = ready
	n.reqReadiness = reqSnapshot
	n.actionErr = actionErr
}

// RequirementReadiness returns the per-requirement readiness snapshot
// captured when this Node was evaluated, or nil if it has not been
// evaluated yet.
func (n *Node) RequirementReadiness() map[string]bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reqReadiness
}

// ActionError returns the error (if any) produced by the Node's action
// body. Action errors are non-fatal to the engine (spec §7): the Node's
// readiness is re-queried after the action regardless of whether it erred.
func (n *Node) ActionError() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.actionErr
}

// ProtocolError returns the error, if any, raised while declaring this
// Node's task (a missing name, or a missing assets, requirements or action
// stage for its kind). A non-nil ProtocolError means the Node is
// permanently not-ready (spec §7 "Protocol errors").
func (n *Node) ProtocolError() error {
	return n.protocolErr
}
