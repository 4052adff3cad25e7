// Package explorer provides interactive terminal tools for a trained
// policy: a value table inspector and a human versus machine game.
package explorer

import (
	"sort"

	"github.com/zeu5/nim-rl/nim"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/rl"
)

// Explorer inspects a value table and the traces it was trained on.
type Explorer struct {
	QTable *policies.QTable
	Piles  []int
	Traces []*rl.Trace
}

func NewExplorer(qTable *policies.QTable, piles []int, traces []*rl.Trace) *Explorer {
	return &Explorer{
		QTable: qTable,
		Piles:  nim.NewGame(piles).Piles,
		Traces: traces,
	}
}

// sortedValues lists the learned action values of a state key, best first.
func (e *Explorer) sortedValues(stateKey string) ([]string, map[string]float64, bool) {
	if !e.QTable.HasState(stateKey) {
		return nil, nil, false
	}
	values := e.QTable.StateActions(stateKey)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if values[keys[i]] != values[keys[j]] {
			return values[keys[i]] > values[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys, values, true
}

// greedyMove resolves the best known move for the game's current board.
func greedyMove(q *policies.QTable, game *nim.Game) (nim.Move, float64, bool) {
	moves := game.Moves()
	if len(moves) == 0 {
		return nim.Move{}, 0, false
	}
	byHash := make(map[string]nim.Move, len(moves))
	keys := make([]string, len(moves))
	for i, m := range moves {
		h := m.Hash()
		byHash[h] = m
		keys[i] = h
	}
	best, value := q.MaxAmong(nim.StateOf(game).Hash(), keys)
	return byHash[best], value, true
}
