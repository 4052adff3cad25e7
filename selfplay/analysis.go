package selfplay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"
	"github.com/zeu5/nim-rl/rl"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Winner derives the winning seat from a finished trace. Seats alternate
// from seat 0, the final move loses, so the winner is the parity of the
// trace length.
func Winner(t *rl.Trace) (int, bool) {
	if !t.Terminal() {
		return 0, false
	}
	return t.Len() % 2, true
}

// FirstPlayerWins reports whether seat 0 won the episode.
func FirstPlayerWins(t *rl.Trace) bool {
	winner, ok := Winner(t)
	return ok && winner == 0
}

// Generic dataset produced by analyzing the traces of one experiment
type DataSet interface{}

// Analyzer compresses the traces of an experiment to a DataSet
type Analyzer func([]*rl.Trace) DataSet

// Comparator consumes the datasets of all experiments in one run
type Comparator func(run int, names []string, datasets []DataSet)

func NoopComparator() Comparator {
	return func(int, []string, []DataSet) {}
}

func MultiComparator(comparators ...Comparator) Comparator {
	return func(run int, names []string, datasets []DataSet) {
		for _, c := range comparators {
			c(run, names, datasets)
		}
	}
}

// WinRateAnalyzer tracks the fraction of episodes won by seat 0 over a
// trailing window. The dataset is one rate per episode.
func WinRateAnalyzer(window int) Analyzer {
	return func(traces []*rl.Trace) DataSet {
		wins := make([]float64, len(traces))
		for i, t := range traces {
			if FirstPlayerWins(t) {
				wins[i] = 1
			}
		}
		return rolling(wins, window)
	}
}

// GameLengthAnalyzer tracks the mean episode length over a trailing window.
func GameLengthAnalyzer(window int) Analyzer {
	return func(traces []*rl.Trace) DataSet {
		lengths := make([]float64, len(traces))
		for i, t := range traces {
			lengths[i] = float64(t.Len())
		}
		return rolling(lengths, window)
	}
}

func rolling(values []float64, window int) []float64 {
	if window <= 0 {
		window = 100
	}
	means := make([]float64, len(values))
	for i := range values {
		lo := i + 1 - window
		if lo < 0 {
			lo = 0
		}
		means[i] = stat.Mean(values[lo:i+1], nil)
	}
	return means
}

// CoverageAnalyzer counts the distinct board states visited, cumulative
// per episode.
func CoverageAnalyzer() Analyzer {
	return func(traces []*rl.Trace) DataSet {
		uniqueStates := make(map[string]bool)
		covered := make([]float64, len(traces))
		for i, trace := range traces {
			for j := 0; j < trace.Len(); j++ {
				s, _, _, _ := trace.Get(j)
				uniqueStates[s.Hash()] = true
			}
			covered[i] = float64(len(uniqueStates))
		}
		return covered
	}
}

// PlotComparator draws one line per experiment and saves a png named
// <run>_<name>.png under savePath.
func PlotComparator(title, yLabel, name, savePath string) Comparator {
	if _, err := os.Stat(savePath); err != nil {
		os.MkdirAll(savePath, os.ModePerm)
	}
	return func(run int, names []string, datasets []DataSet) {
		p := plot.New()
		p.Title.Text = title
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = yLabel
		for i := 0; i < len(names); i++ {
			series, ok := datasets[i].([]float64)
			if !ok {
				continue
			}
			points := make(plotter.XYs, len(series))
			for j, v := range series {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(savePath, strconv.Itoa(run)+"_"+name+".png"))
	}
}

// CSVComparator writes the series of all experiments side by side to
// <run>_<name>.csv under savePath, one row per episode.
func CSVComparator(name, savePath string) Comparator {
	if _, err := os.Stat(savePath); err != nil {
		os.MkdirAll(savePath, os.ModePerm)
	}
	return func(run int, names []string, datasets []DataSet) {
		filePath := path.Join(savePath, strconv.Itoa(run)+"_"+name+".csv")
		f, err := os.Create(filePath)
		if err != nil {
			log.Error().Err(err).Str("path", filePath).Msg("failed to create csv file")
			return
		}
		defer f.Close()

		writer := csv.NewWriter(f)
		defer writer.Flush()

		writer.Write(append([]string{"episode"}, names...))

		series := make([][]float64, len(datasets))
		rows := 0
		for i, ds := range datasets {
			if s, ok := ds.([]float64); ok {
				series[i] = s
				if len(s) > rows {
					rows = len(s)
				}
			}
		}
		record := make([]string, len(names)+1)
		for r := 0; r < rows; r++ {
			record[0] = strconv.Itoa(r)
			for i, s := range series {
				if r < len(s) {
					record[i+1] = strconv.FormatFloat(s[r], 'f', -1, 64)
				} else {
					record[i+1] = ""
				}
			}
			writer.Write(record)
		}
	}
}

// HTMLChartComparator renders an interactive chart of all experiments to
// <run>_<name>.html under savePath.
func HTMLChartComparator(title, name, savePath string) Comparator {
	if _, err := os.Stat(savePath); err != nil {
		os.MkdirAll(savePath, os.ModePerm)
	}
	return func(run int, names []string, datasets []DataSet) {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title: title,
			}),
			charts.WithInitializationOpts(opts.Initialization{
				Theme: "shine",
			}),
		)

		episodes := 0
		for _, ds := range datasets {
			if s, ok := ds.([]float64); ok && len(s) > episodes {
				episodes = len(s)
			}
		}
		xAxis := make([]string, episodes)
		for i := 0; i < episodes; i++ {
			xAxis[i] = fmt.Sprintf("%d", i)
		}
		line = line.SetXAxis(xAxis)

		for i, ds := range datasets {
			series, ok := ds.([]float64)
			if !ok {
				continue
			}
			items := make([]opts.LineData, 0, len(series))
			for _, v := range series {
				items = append(items, opts.LineData{Value: v})
			}
			line.AddSeries(names[i], items)
		}

		page := components.NewPage()
		page.AddCharts(line)

		filePath := path.Join(savePath, strconv.Itoa(run)+"_"+name+".html")
		f, err := os.Create(filePath)
		if err != nil {
			log.Error().Err(err).Str("path", filePath).Msg("failed to create chart file")
			return
		}
		defer f.Close()
		if err := page.Render(io.MultiWriter(f)); err != nil {
			log.Error().Err(err).Str("path", filePath).Msg("failed to render chart")
		}
	}
}

// SummaryComparator logs the final value of each experiment's series.
func SummaryComparator(name string) Comparator {
	return func(run int, names []string, datasets []DataSet) {
		for i, ds := range datasets {
			series, ok := ds.([]float64)
			if !ok || len(series) == 0 {
				continue
			}
			log.Info().
				Int("run", run).
				Str("experiment", names[i]).
				Float64(name, series[len(series)-1]).
				Msg("comparison summary")
		}
	}
}
