package iotaa

import "sort"

// Asset is an observable piece of external or in-memory state. Ref addresses
// or derives from the asset (a path, a URL, a timestamp, a handle); Ready
// reports whether the asset currently exists in its completed form. Ready
// must be safe to call repeatedly and must not mutate external state — the
// engine treats two back-to-back calls as independent queries.
type Asset struct {
	Ref   any
	Ready func() bool
}

// NewAsset constructs an Asset from a ref and a readiness predicate.
func NewAsset(ref any, ready func() bool) Asset {
	return Asset{Ref: ref, Ready: ready}
}

func (a Asset) ready() bool { return a.Ready() }
func (a Asset) ref() any    { return a.Ref }

// AssetGroup is the assets container attached to a Node: scalar, ordered
// sequence, string-keyed mapping, or none. The shape is preserved in the ref
// projection (see Ref()).
type AssetGroup interface {
	ready() bool
	ref() any
}

// NoAssets is the empty assets container, used by tasks that expose nothing
// addressable.
type NoAssets struct{}

func (NoAssets) ready() bool { return true }
func (NoAssets) ref() any    { return nil }

// One wraps a single Asset as a scalar assets container.
func One(a Asset) AssetGroup { return scalarAsset{a} }

type scalarAsset struct{ a Asset }

func (s scalarAsset) ready() bool { return s.a.ready() }
func (s scalarAsset) ref() any    { return s.a.ref() }

// Assets is an ordered, position-keyed sequence of assets.
type Assets []Asset

func (s Assets) ready() bool {
	for _, a := range s {
		if !a.ready() {
			return false
		}
	}
	return true
}

func (s Assets) ref() any {
	refs := make([]any, len(s))
	for i, a := range s {
		refs[i] = a.ref()
	}
	return refs
}

// AssetMap is a string-keyed mapping of assets.
type AssetMap map[string]Asset

func (m AssetMap) ready() bool {
	for _, a := range m {
		if !a.ready() {
			return false
		}
	}
	return true
}

func (m AssetMap) ref() any {
	refs := make(map[string]any, len(m))
	for k, a := range m {
		refs[k] = a.ref()
	}
	return refs
}

// assetKeys returns the sorted keys of an AssetMap.
func assetKeys(m AssetMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
