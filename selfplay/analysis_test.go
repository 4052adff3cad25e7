package selfplay

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/nim-rl/rl"
)

func playTrace(t *testing.T, piles []int) *rl.Trace {
	t.Helper()
	_, trace, err := PlayGame(firstChooser{}, firstChooser{}, piles, false)
	require.NoError(t, err)
	return trace
}

func TestWinnerFromTrace(t *testing.T) {
	t.Run("odd length means the second seat won", func(t *testing.T) {
		winner, ok := Winner(playTrace(t, []int{1}))
		require.True(t, ok)
		require.Equal(t, 1, winner)
		require.False(t, FirstPlayerWins(playTrace(t, []int{1})))
	})

	t.Run("even length means the first seat won", func(t *testing.T) {
		winner, ok := Winner(playTrace(t, []int{1, 1}))
		require.True(t, ok)
		require.Equal(t, 0, winner)
		require.True(t, FirstPlayerWins(playTrace(t, []int{1, 1})))
	})

	t.Run("unfinished games have no winner", func(t *testing.T) {
		prefix, ok := playTrace(t, []int{2, 1}).GetPrefix(1)
		require.True(t, ok)
		_, ok = Winner(prefix)
		require.False(t, ok)
	})
}

func TestWinRateAnalyzer(t *testing.T) {
	traces := []*rl.Trace{
		playTrace(t, []int{1, 1}), // seat 0 wins
		playTrace(t, []int{1}),    // seat 1 wins
		playTrace(t, []int{1, 1}),
		playTrace(t, []int{1, 1}),
	}
	rates := WinRateAnalyzer(2)(traces).([]float64)
	require.Equal(t, []float64{1, 0.5, 0.5, 1}, rates)
}

func TestGameLengthAnalyzer(t *testing.T) {
	traces := []*rl.Trace{
		playTrace(t, []int{1, 1}),
		playTrace(t, []int{1}),
		playTrace(t, []int{1, 1}),
		playTrace(t, []int{1, 1}),
	}
	lengths := GameLengthAnalyzer(2)(traces).([]float64)
	require.Equal(t, []float64{2, 1.5, 1.5, 2}, lengths)
}

func TestCoverageAnalyzer(t *testing.T) {
	traces := []*rl.Trace{
		playTrace(t, []int{1, 1}), // visits (1, 1) and (0, 1)
		playTrace(t, []int{1}),    // visits (1)
		playTrace(t, []int{1, 1}), // nothing new
	}
	covered := CoverageAnalyzer()(traces).([]float64)
	require.Equal(t, []float64{2, 3, 3}, covered)
}

func TestCSVComparator(t *testing.T) {
	dir := t.TempDir()
	compare := CSVComparator("winrate", dir)
	compare(0, []string{"a", "b"}, []DataSet{
		[]float64{1, 0.5},
		[]float64{0, 0.25},
	})

	bs, err := os.ReadFile(path.Join(dir, "0_winrate.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	require.Equal(t, []string{
		"episode,a,b",
		"0,1,0",
		"1,0.5,0.25",
	}, lines)
}

func TestPlotComparator(t *testing.T) {
	dir := t.TempDir()
	compare := PlotComparator("Win rate", "rate", "winrate", dir)
	compare(2, []string{"a"}, []DataSet{[]float64{0, 0.5, 1}})
	require.FileExists(t, path.Join(dir, "2_winrate.png"))
}

func TestHTMLChartComparator(t *testing.T) {
	dir := t.TempDir()
	compare := HTMLChartComparator("Win rate", "winrate", dir)
	compare(0, []string{"qlearning"}, []DataSet{[]float64{0, 0.5, 1}})

	bs, err := os.ReadFile(path.Join(dir, "0_winrate.html"))
	require.NoError(t, err)
	require.Contains(t, string(bs), "qlearning")
}

func TestMultiComparator(t *testing.T) {
	calls := 0
	count := func(int, []string, []DataSet) { calls++ }
	MultiComparator(count, count, NoopComparator())(0, nil, nil)
	require.Equal(t, 2, calls)
}
