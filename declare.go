package iotaa

import "fmt"

// The task declaration protocol (spec §4.1) is expressed in Go as a small
// chain of stage-specific builder types: each stage's method is only
// reachable from the previous stage's return value, so the compiler itself
// enforces "yield name, then yield assets-or-requirements, then (for Basic)
// yield requirements and an action body." Arbitrary preparation code may run
// between any two chained calls — it is just ordinary Go statements between
// method calls in the task-constructor function.
//
// A lower-level Declare escape hatch exists for callers that assemble a
// Node's fields dynamically and cannot use the static chain; it performs the same validation the chain
// gives for free and is where malformed declarations are turned into
// protocol errors (spec §7).

// Basic starts the declaration of a Basic task: it yields a name, then
// assets, then requirements, then an action body.
func Basic(name string) *BasicAssetsStage {
	return &BasicAssetsStage{name: name}
}

// BasicAssetsStage is stage 2 of a Basic declaration.
type BasicAssetsStage struct{ name string }

// Assets yields the task's assets container.
func (s *BasicAssetsStage) Assets(assets AssetGroup) *BasicReqStage {
	return &BasicReqStage{name: s.name, assets: assets}
}

// BasicReqStage is stage 3 of a Basic declaration.
type BasicReqStage struct {
	name   string
	assets AssetGroup
}

// Requirements yields the task's requirements container.
func (s *BasicReqStage) Requirements(reqs NodeGroup) *BasicActionStage {
	return &BasicActionStage{name: s.name, assets: s.assets, reqs: reqs}
}

// BasicActionStage is the final stage of a Basic declaration.
type BasicActionStage struct {
	name   string
	assets AssetGroup
	reqs   NodeGroup
}

// Action yields the action body and produces the Node. The action runs only
// if every requirement reaches readiness and the task's own assets are not
// already ready (spec §4.2).
func (s *BasicActionStage) Action(run Action) *Node {
	return Declare(BasicKind(s.name, s.assets, s.reqs, run))
}

// Collection starts the declaration of a Collection task: it yields a name,
// then requirements. Collection tasks have no assets and no action; their
// readiness is the conjunction of their requirements.
func Collection(name string) *CollectionReqStage {
	return &CollectionReqStage{name: name}
}

// CollectionReqStage is the final stage of a Collection declaration.
type CollectionReqStage struct{ name string }

// Requirements yields the task's requirements container and produces the
// Node.
func (s *CollectionReqStage) Requirements(reqs NodeGroup) *Node {
	return Declare(CollectionKind(s.name, reqs))
}

// External starts the declaration of an External task: it yields a name,
// then assets. External tasks have no requirements and are never executed
// to ready themselves; their readiness is the conjunction of their assets.
func External(name string) *ExternalAssetsStage {
	return &ExternalAssetsStage{name: name}
}

// ExternalAssetsStage is the final stage of an External declaration.
type ExternalAssetsStage struct{ name string }

// Assets yields the task's assets container and produces the Node.
func (s *ExternalAssetsStage) Assets(assets AssetGroup) *Node {
	return Declare(ExternalKind(s.name, assets))
}

// declSpec is the tagged variant the Design Notes (spec §9) describe: a
// name, a kind, and whichever of {assets, requirements, action} that kind
// carries. Declare validates it and produces a Node.
type declSpec struct {
	kind   Kind
	name   string
	assets AssetGroup
	reqs   NodeGroup
	action Action
}

// BasicKind assembles the declSpec for a Basic task.
func BasicKind(name string, assets AssetGroup, reqs NodeGroup, action Action) declSpec {
	return declSpec{kind: Basic, name: name, assets: assets, reqs: reqs, action: action}
}

// CollectionKind assembles the declSpec for a Collection task.
func CollectionKind(name string, reqs NodeGroup) declSpec {
	return declSpec{kind: Collection, name: name, reqs: reqs}
}

// ExternalKind assembles the declSpec for an External task.
func ExternalKind(name string, assets AssetGroup) declSpec {
	return declSpec{kind: External, name: name, assets: assets}
}

// Declare validates a task declaration and produces its Node. A malformed
// declaration (missing stage, wrong shape for the kind) does not panic or
// abort the invocation: it produces a Node carrying a ProtocolError, which
// renders the Node and its dependents not-ready (spec §7).
func Declare(spec declSpec) *Node {
	n := &Node{
		Name:         spec.name,
		Kind:         spec.kind,
		Assets:       spec.assets,
		Requirements: spec.reqs,
		Run:          spec.action,
	}

	switch {
	case spec.name == "":
		n.protocolErr = fmt.Errorf("iotaa: task declaration did not yield a name (stage 1)")
	case spec.kind == Basic && spec.assets == nil:
		n.protocolErr = fmt.Errorf("iotaa: task %q did not yield assets (stage 2)", spec.name)
	case spec.kind == Basic && spec.reqs == nil:
		n.protocolErr = fmt.Errorf("iotaa: task %q did not yield requirements (stage 3)", spec.name)
	case spec.kind == Basic && spec.action == nil:
		n.protocolErr = fmt.Errorf("iotaa: task %q did not yield an action body", spec.name)
	case spec.kind == Collection && spec.reqs == nil:
		n.protocolErr = fmt.Errorf("iotaa: task %q did not yield requirements (stage 2)", spec.name)
	case spec.kind == External && spec.assets == nil:
		n.protocolErr = fmt.Errorf("iotaa: task %q did not yield assets (stage 2)", spec.name)
	}

	// Fill in the containers a kind doesn't use, so Node.liveReady and the
	// executor never have to nil-check.
	if n.Assets == nil {
		n.Assets = NoAssets{}
	}
	if n.Requirements == nil {
		n.Requirements = NoRequirements{}
	}

	return n
}
