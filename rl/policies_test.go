package rl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomPolicy(t *testing.T) {
	state := fakeState{hash: "s", actions: []Action{fakeAction("a"), fakeAction("b"), fakeAction("c")}}

	t.Run("seeded draws repeat", func(t *testing.T) {
		draw := func() []Action {
			policy := NewRandomPolicy(13)
			picks := make([]Action, 0, 20)
			for i := 0; i < 20; i++ {
				action, ok := policy.NextAction(i, state, state.Actions())
				require.True(t, ok)
				picks = append(picks, action)
			}
			return picks
		}
		require.Equal(t, draw(), draw())
	})

	t.Run("no actions", func(t *testing.T) {
		policy := NewRandomPolicy(13)
		_, ok := policy.NextAction(0, fakeState{hash: "t"}, nil)
		require.False(t, ok)

		_, err := policy.ChooseAction(fakeState{hash: "t"}, false)
		require.ErrorIs(t, err, ErrNoAvailableActions)
	})

	t.Run("picks come from the offered set", func(t *testing.T) {
		policy := NewRandomPolicy(0)
		for i := 0; i < 50; i++ {
			action, err := policy.ChooseAction(state, true)
			require.NoError(t, err)
			require.Contains(t, state.Actions(), action)
		}
	})
}
