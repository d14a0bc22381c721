package iotaa

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Options configures a single engine invocation (spec §6 "Programmatic
// entry point").
type Options struct {
	// DryRun suppresses all action execution (spec §4.2 step 3).
	DryRun bool

	// Log receives every diagnostic the engine produces. If nil,
	// diagnostics are discarded.
	Log Logger

	// Workers sets the concurrency level W. Values less than 1 are
	// treated as 1 (spec §5 "single-threaded mode... is the default").
	Workers int
}

// RunResult is returned by Run once the workflow has reached a final state.
type RunResult struct {
	// Graph is the deduplicated, pruned DAG built for this invocation, for
	// diagnostics and DOT rendering (spec §4.5).
	Graph *Graph

	// Ready is the root task's final readiness verdict.
	Ready bool
}

// Run drives a workflow to completion: it builds the deduplicated graph
// rooted at root, then executes it in dependency order under the given
// Options (spec §4.2–§4.4). Run returns once every reachable task has
// reached a final readiness verdict, or the context is cancelled (in which
// case Run returns as soon as in-flight actions finish, leaving the
// remainder of the graph unevaluated — spec §5 "Cancellation and
// timeouts").
func Run(ctx context.Context, root *Node, opts Options) (*RunResult, error) {
	if root == nil {
		return nil, errors.New("iotaa: nil root task")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	g := buildGraph(root)
	e := &executor{g: g, opts: opts, log: effectiveLogger(opts.Log)}

	if opts.Workers == 1 {
		e.runSerial(ctx)
	} else {
		e.runConcurrent(ctx, opts.Workers)
	}

	canonicalRoot := g.canonical(root)
	return &RunResult{Graph: &Graph{g: g}, Ready: canonicalRoot.Ready()}, nil
}

// executor walks a graph to completion, honoring dry-run and W.
type executor struct {
	g    *graph
	opts Options
	log  Logger
}

// computeDeps returns, for every task name in the graph, how many of its
// requirements have not yet reached a final verdict (pending), and which
// task names depend on it (dependents). Both are derived from the graph's
// deterministic insertion order, so the schedules computed from them are
// reproducible.
func (e *executor) computeDeps() (pending map[string]int, dependents map[string][]string) {
	pending = make(map[string]int, len(e.g.order))
	dependents = make(map[string][]string, len(e.g.order))
	for _, name := range e.g.order {
		reqs := e.g.edges[name]
		pending[name] = len(reqs)
		for _, r := range reqs {
			dependents[r] = append(dependents[r], name)
		}
	}
	return pending, dependents
}

// initialQueue returns the task names with no pending requirements, in
// graph insertion order.
func (e *executor) initialQueue(pending map[string]int) []string {
	queue := make([]string, 0, len(e.g.order))
	for _, name := range e.g.order {
		if pending[name] == 0 {
			queue = append(queue, name)
		}
	}
	return queue
}

// runSerial evaluates every task one at a time in the main flow of control
// (spec §5 "W = 1: tasks run one at a time in the main flow of control").
func (e *executor) runSerial(ctx context.Context) {
	pending, dependents := e.computeDeps()
	queue := e.initialQueue(pending)

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return
		}
		name := queue[0]
		queue = queue[1:]

		n := e.g.canon[name]
		reqs := e.g.requirementsOf(name)
		e.evaluateOne(n, reqs)

		for _, dep := range dependents[name] {
			pending[dep]--
			if pending[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
}

// runConcurrent evaluates the graph with up to workers tasks running at
// once, dispatching a task as soon as every one of its requirements has
// reached a final verdict (spec §4.4, §5).
func (e *executor) runConcurrent(ctx context.Context, workers int) {
	pending, dependents := e.computeDeps()

	var mu sync.Mutex
	queue := e.initialQueue(pending)
	inFlight := 0
	done := 0
	total := len(e.g.order)

	workCh := make(chan string)
	doneCh := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range workCh {
				n := e.g.canon[name]
				reqs := e.g.requirementsOf(name)
				e.evaluateOne(n, reqs)
				doneCh <- name
			}
		}()
	}

	dispatch := func() {
		for inFlight < workers && len(queue) > 0 {
			name := queue[0]
			queue = queue[1:]
			inFlight++
			workCh <- name
		}
	}

	mu.Lock()
	dispatch()
	mu.Unlock()

	cancelled := false
	for done < total && !cancelled {
		select {
		case <-ctx.Done():
			cancelled = true
		case name := <-doneCh:
			mu.Lock()
			inFlight--
			done++
			for _, dep := range dependents[name] {
				pending[dep]--
				if pending[dep] == 0 {
					queue = append(queue, dep)
				}
			}
			dispatch()
			mu.Unlock()
		}
	}

	if cancelled {
		// Stop dispatching new work but let in-flight actions finish
		// (spec §5 "does not interrupt user code").
		mu.Lock()
		remaining := inFlight
		mu.Unlock()
		for i := 0; i < remaining; i++ {
			<-doneCh
		}
	}

	close(workCh)
	wg.Wait()
}

// evaluateOne applies the readiness-first rule (spec §4.2) to a single
// task, given that every one of its requirements has already reached a
// final verdict.
func (e *executor) evaluateOne(n *Node, reqs []*Node) {
	if n.protocolErr != nil {
		n.setFinal(false, nil, nil)
		e.reportProtocolError(n)
		return
	}

	switch n.Kind {
	case External:
		ready := n.Assets.ready()
		n.setFinal(ready, nil, nil)
		if ready {
			e.reportReady(n)
		} else {
			e.reportExternalNotReady(n)
		}

	case Collection:
		snapshot := requirementSnapshot(reqs)
		ready := allReady(snapshot)
		n.setFinal(ready, snapshot, nil)
		if ready {
			e.reportReady(n)
		} else {
			e.reportRequirementsNotReady(n, snapshot)
		}

	case Basic:
		e.evaluateBasic(n, reqs)

	default:
		n.setFinal(false, nil, fmt.Errorf("iotaa: task %q has unknown kind", n.Name))
	}
}

// evaluateBasic implements the full four-step readiness-first sequence for
// a Basic task (spec §4.2).
func (e *executor) evaluateBasic(n *Node, reqs []*Node) {
	// Step 1: the task's own assets, checked before its requirements are
	// even consulted.
	if n.Assets.ready() {
		n.setFinal(true, nil, nil)
		e.reportReady(n)
		return
	}

	// Step 2: every requirement must already be final (guaranteed by the
	// scheduler) and ready.
	snapshot := requirementSnapshot(reqs)
	if !allReady(snapshot) {
		n.setFinal(false, snapshot, nil)
		e.reportRequirementsNotReady(n, snapshot)
		return
	}

	// Step 3: dry run skips the action entirely.
	if e.opts.DryRun {
		n.setFinal(false, snapshot, nil)
		e.reportSkipping(n)
		return
	}

	// Step 4: run the action, then re-query readiness regardless of
	// whether the action erred (spec §7 "Action errors").
	actionErr := runAction(n.Run)
	ready := n.Assets.ready()
	n.setFinal(ready, snapshot, actionErr)
	e.reportAction(n, ready, actionErr)
}

// runAction invokes a task's action body, converting a panic into an error
// so that one misbehaving task cannot take down the whole invocation (spec
// §7 "Other in-flight or pending tasks continue").
func runAction(action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("iotaa: action panicked: %v", r)
		}
	}()
	if action == nil {
		return nil
	}
	return action()
}

func requirementSnapshot(reqs []*Node) map[string]bool {
	snapshot := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		snapshot[r.Name] = r.Ready()
	}
	return snapshot
}

func allReady(snapshot map[string]bool) bool {
	for _, ready := range snapshot {
		if !ready {
			return false
		}
	}
	return true
}
