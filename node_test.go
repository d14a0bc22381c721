package iotaa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_ReadyPerformsLiveCheckBeforeEvaluation(t *testing.T) {
	ready := false
	n := Basic("n").
		Assets(One(NewAsset("r", func() bool { return ready }))).
		Requirements(NoRequirements{}).
		Action(func() error { return nil })

	assert.False(t, n.Ready())
	ready = true
	assert.True(t, n.Ready(), "before evaluation, Ready recomputes from current state")
}

func TestNode_ReadyReturnsCachedVerdictAfterEvaluation(t *testing.T) {
	ready := false
	n := Basic("n").
		Assets(One(NewAsset("r", func() bool { return ready }))).
		Requirements(NoRequirements{}).
		Action(func() error { return nil })

	_, err := Run(context.Background(), n, Options{})
	require.NoError(t, err)

	ready = true // external state changes after the run
	assert.False(t, n.Ready(), "after evaluation, Ready must return the cached verdict, not a fresh check")
}

func TestNode_RequirementNodesDedupsWithinOneCall(t *testing.T) {
	dep := External("dep").Assets(One(NewAsset("r", func() bool { return true })))
	n := Basic("n").Assets(NoAssets{}).Requirements(Nodes{dep, dep}).Action(func() error { return nil })

	reqs := n.requirementNodes()
	assert.Len(t, reqs, 1)
}

func TestNode_RequirementReadinessSnapshotCapturedAtEvaluation(t *testing.T) {
	dep := External("dep").Assets(One(NewAsset("r", func() bool { return false })))
	n := Basic("n").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(Require(dep)).
		Action(func() error { return nil })

	assert.Nil(t, n.RequirementReadiness())

	_, err := Run(context.Background(), n, Options{})
	require.NoError(t, err)

	snap := n.RequirementReadiness()
	require.NotNil(t, snap)
	assert.False(t, snap["dep"])
}
