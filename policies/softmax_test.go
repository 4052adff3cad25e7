package policies

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/nim-rl/rl"
)

func TestSoftMaxGreedy(t *testing.T) {
	state := stubState{hash: "s", actions: []rl.Action{stubAction("a"), stubAction("b")}}

	policy := NewSoftMaxQPolicy(0.5, 1, 7)
	policy.Table().Set("s", "b", 0.6)

	action, err := policy.ChooseAction(state, false)
	require.NoError(t, err)
	require.Equal(t, stubAction("b"), action)

	_, err = policy.ChooseAction(stubState{hash: "empty"}, false)
	require.ErrorIs(t, err, rl.ErrNoAvailableActions)
}

func TestSoftMaxSampling(t *testing.T) {
	state := stubState{hash: "s", actions: []rl.Action{stubAction("a"), stubAction("b"), stubAction("c")}}

	t.Run("seeded draws repeat", func(t *testing.T) {
		draw := func() []rl.Action {
			policy := NewSoftMaxQPolicy(0.5, 1, 11)
			picks := make([]rl.Action, 0, 20)
			for i := 0; i < 20; i++ {
				action, ok := policy.NextAction(i, state, state.Actions())
				require.True(t, ok)
				picks = append(picks, action)
			}
			return picks
		}
		require.Equal(t, draw(), draw())
	})

	t.Run("low temperature concentrates on the best value", func(t *testing.T) {
		policy := NewSoftMaxQPolicy(0.5, 0.1, 3)
		policy.Table().Set("s", "b", 10)
		for i := 0; i < 50; i++ {
			action, ok := policy.NextAction(i, state, state.Actions())
			require.True(t, ok)
			require.Equal(t, stubAction("b"), action)
		}
	})

	t.Run("no actions", func(t *testing.T) {
		policy := NewSoftMaxQPolicy(0.5, 1, 3)
		_, ok := policy.NextAction(0, stubState{hash: "empty"}, nil)
		require.False(t, ok)
	})
}

func TestSoftMaxUpdate(t *testing.T) {
	s1 := stubState{hash: "s1", actions: []rl.Action{stubAction("a")}}
	terminal := stubState{hash: "t"}

	policy := NewSoftMaxQPolicy(0.5, 1, 3)
	policy.Update(0, s1, stubAction("a"), terminal, 1)
	require.Equal(t, 0.5, policy.Table().Get("s1", "a"))

	policy.Reset()
	require.Equal(t, 0, policy.Table().Size())
}
