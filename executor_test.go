package iotaa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NilRootIsAnEngineError(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestRun_ProtocolErrorMarksNodeNotReadyWithoutPanicking(t *testing.T) {
	bad := Declare(BasicKind("bad", nil, NoRequirements{}, func() error { return nil }))

	result, err := Run(context.Background(), bad, Options{})
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Error(t, bad.ProtocolError())
}

func TestRun_ActionErrorIsNonFatalAndReadinessIsRequeried(t *testing.T) {
	ready := false
	sentinel := errors.New("boom")

	root := Basic("n").
		Assets(One(NewAsset("r", func() bool { return ready }))).
		Requirements(NoRequirements{}).
		Action(func() error {
			ready = true
			return sentinel
		})

	result, err := Run(context.Background(), root, Options{})
	require.NoError(t, err, "action errors are non-fatal to the engine")
	assert.True(t, result.Ready, "readiness is re-queried after the action regardless of its error")
	assert.ErrorIs(t, root.ActionError(), sentinel)
}

func TestRun_PanicInActionIsRecovered(t *testing.T) {
	root := Basic("n").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(NoRequirements{}).
		Action(func() error { panic("boom") })

	result, err := Run(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Error(t, root.ActionError())
}

func TestRun_DryRunSkipsActionEvenWhenRequirementsReady(t *testing.T) {
	ranAction := false
	root := Basic("n").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(NoRequirements{}).
		Action(func() error { ranAction = true; return nil })

	result, err := Run(context.Background(), root, Options{DryRun: true})
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.False(t, ranAction)
}

func TestRun_CollectionReadinessIsConjunctionOfRequirements(t *testing.T) {
	readyReq := External("ready").Assets(One(NewAsset("r", func() bool { return true })))
	notReadyReq := External("not-ready").Assets(One(NewAsset("r", func() bool { return false })))

	root := Collection("root").Requirements(Nodes{readyReq, notReadyReq})

	result, err := Run(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.False(t, result.Ready)

	root2 := Collection("root2").Requirements(Nodes{readyReq})
	result2, err := Run(context.Background(), root2, Options{})
	require.NoError(t, err)
	assert.True(t, result2.Ready)
}

func TestRun_ConcurrentAndSerialAgreeOnFinalReadiness(t *testing.T) {
	build := func() *Node {
		leaf := External("leaf").Assets(One(NewAsset("r", func() bool { return true })))
		mid := Basic("mid").Assets(NoAssets{}).Requirements(Require(leaf)).Action(func() error { return nil })
		return Collection("root").Requirements(Require(mid))
	}

	serial, err := Run(context.Background(), build(), Options{Workers: 1})
	require.NoError(t, err)

	concurrent, err := Run(context.Background(), build(), Options{Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Ready, concurrent.Ready)
}

func TestRun_CancellationStopsDispatchButLetsInFlightFinish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	blocker := Basic("blocker").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(NoRequirements{}).
		Action(func() error {
			close(started)
			<-ctx.Done()
			return nil
		})
	never := Basic("never").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(Require(blocker)).
		Action(func() error { return nil })

	done := make(chan *RunResult, 1)
	go func() {
		result, _ := Run(ctx, never, Options{})
		done <- result
	}()

	<-started
	cancel()

	result := <-done
	assert.False(t, result.Ready)
}

func TestRun_ConcurrentCancellationDrainsInFlightWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	blocker := Basic("blocker").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(NoRequirements{}).
		Action(func() error {
			close(started)
			<-ctx.Done()
			return nil
		})
	sibling := Basic("sibling").
		Assets(One(NewAsset("r", func() bool { return false }))).
		Requirements(NoRequirements{}).
		Action(func() error { return nil })
	root := Collection("root").Requirements(Nodes{blocker, sibling})

	done := make(chan *RunResult, 1)
	go func() {
		result, _ := Run(ctx, root, Options{Workers: 2})
		done <- result
	}()

	<-started
	cancel()

	result := <-done
	assert.False(t, result.Ready)
}
