package selfplay

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/rl"
)

func TestComparisonRun(t *testing.T) {
	savePath := t.TempDir()

	learner, err := policies.NewQLearningPolicy(policies.QLearningConfig{Alpha: 0.5, Epsilon: 0.2, Seed: 1})
	require.NoError(t, err)

	finished := rl.NewMonitor()
	finished.Build().
		On(func(_ rl.State, _ rl.Action, ns rl.State) bool {
			return len(ns.Actions()) == 0
		}, "done").
		MarkSuccess()

	qExp := NewExperiment("qlearning", learner).WithProperty("finished", finished)

	comparison := NewComparison(&ComparisonConfig{
		Runs:         2,
		Episodes:     30,
		Piles:        []int{1, 2},
		SavePath:     savePath,
		RecordTraces: true,
	})
	comparison.AddExperiment(qExp)
	comparison.AddExperiment(NewExperiment("random", rl.NewRandomPolicy(2)))

	captured := make(map[int][]DataSet)
	var capturedNames []string
	comparison.AddAnalysis("coverage", CoverageAnalyzer(), func(run int, names []string, datasets []DataSet) {
		captured[run] = datasets
		capturedNames = names
	})

	comparison.Run(context.Background())

	require.Len(t, captured, 2, "the comparator fires once per run")
	require.Equal(t, []string{"qlearning", "random"}, capturedNames)
	for _, datasets := range captured {
		require.Len(t, datasets, 2)
		for _, ds := range datasets {
			require.Len(t, ds.([]float64), 30, "one data point per episode")
		}
	}

	// every game on this board ends before the derived horizon
	require.Equal(t, 60, qExp.PropertyCount("finished"))
	require.Equal(t, 0, qExp.PropertyCount("unknown"))

	bs, err := os.ReadFile(path.Join(savePath, "comparison_config.json"))
	require.NoError(t, err)
	var recorded map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &recorded))
	require.Equal(t, float64(2), recorded["runs"])
	require.Equal(t, float64(30), recorded["episodes"])
	require.ElementsMatch(t, []interface{}{"qlearning", "random"}, recorded["experiments"])

	bs, err = os.ReadFile(path.Join(savePath, "traces", "qlearning_0.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	require.Len(t, lines, 30, "one jsonl line per episode")
	var episode map[string][]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &episode))
	require.Equal(t, "(1, 2)", episode["states"][0])
	require.Len(t, episode["actions"], len(episode["states"]))
}

func TestComparisonCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comparison := NewComparison(&ComparisonConfig{
		Runs:     1,
		Episodes: 10,
		Piles:    []int{1},
		SavePath: t.TempDir(),
	})
	exp := NewExperiment("random", rl.NewRandomPolicy(3))
	comparison.AddExperiment(exp)
	comparison.AddAnalysis("length", GameLengthAnalyzer(10), NoopComparator())

	comparison.Run(ctx)
	require.Empty(t, exp.Result)
}
