package iotaa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoAssets_AlwaysReady(t *testing.T) {
	var a AssetGroup = NoAssets{}
	assert.True(t, a.ready())
	assert.Nil(t, a.ref())
}

func TestOne_DelegatesToTheWrappedAsset(t *testing.T) {
	a := One(NewAsset("r", func() bool { return false }))
	assert.False(t, a.ready())
	assert.Equal(t, "r", a.ref())
}

func TestAssets_ReadyIsConjunction(t *testing.T) {
	ready := Assets{
		NewAsset(1, func() bool { return true }),
		NewAsset(2, func() bool { return true }),
	}
	assert.True(t, ready.ready())

	mixed := Assets{
		NewAsset(1, func() bool { return true }),
		NewAsset(2, func() bool { return false }),
	}
	assert.False(t, mixed.ready())
}

func TestAssets_RefPreservesOrder(t *testing.T) {
	s := Assets{NewAsset("a", func() bool { return true }), NewAsset("b", func() bool { return true })}
	assert.Equal(t, []any{"a", "b"}, s.ref())
}

func TestAssetMap_ReadyIsConjunction(t *testing.T) {
	m := AssetMap{
		"a": NewAsset(1, func() bool { return true }),
		"b": NewAsset(2, func() bool { return false }),
	}
	assert.False(t, m.ready())
}

func TestAssetMap_RefPreservesKeys(t *testing.T) {
	m := AssetMap{"a": NewAsset(1, func() bool { return true })}
	assert.Equal(t, map[string]any{"a": 1}, m.ref())
}

func TestAssetKeys_Sorted(t *testing.T) {
	m := AssetMap{
		"z": NewAsset(1, func() bool { return true }),
		"a": NewAsset(2, func() bool { return true }),
	}
	assert.Equal(t, []string{"a", "z"}, assetKeys(m))
}
