package iotaa

import "sort"

// NodeGroup is the requirements container attached to a Node: none, a single
// Node, an ordered sequence of Nodes, or a string-keyed mapping of Nodes.
// Each entry is itself a Node, produced by eagerly invoking another task
// function (Design Notes §9).
type NodeGroup interface {
	nodes() []*Node
}

// NoRequirements is the empty requirements container.
type NoRequirements struct{}

func (NoRequirements) nodes() []*Node { return nil }

// Require wraps a single Node as a scalar requirements container.
func Require(n *Node) NodeGroup { return scalarReq{n} }

type scalarReq struct{ n *Node }

func (s scalarReq) nodes() []*Node {
	if s.n == nil {
		return nil
	}
	return []*Node{s.n}
}

// Nodes is an ordered, position-keyed sequence of requirement Nodes.
type Nodes []*Node

func (s Nodes) nodes() []*Node {
	out := make([]*Node, 0, len(s))
	for _, n := range s {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NodeMap is a string-keyed mapping of requirement Nodes.
type NodeMap map[string]*Node

func (m NodeMap) nodes() []*Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Node, 0, len(m))
	for _, k := range keys {
		if n := m[k]; n != nil {
			out = append(out, n)
		}
	}
	return out
}
