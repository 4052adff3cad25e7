package selfplay

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/zeu5/nim-rl/rl"
	"github.com/zeu5/nim-rl/util"
)

// Experiment names a policy to train and the properties to check on the
// resulting traces.
type Experiment struct {
	Name   string
	Result []*rl.Trace

	policy         rl.Policy
	propertyNames  []string
	properties     []*rl.Monitor
	propertyCounts []int
}

func NewExperiment(name string, policy rl.Policy) *Experiment {
	return &Experiment{
		Name:           name,
		policy:         policy,
		propertyNames:  make([]string, 0),
		properties:     make([]*rl.Monitor, 0),
		propertyCounts: make([]int, 0),
	}
}

// WithProperty registers a monitor whose satisfaction count is reported
// after every run.
func (e *Experiment) WithProperty(name string, monitor *rl.Monitor) *Experiment {
	e.propertyNames = append(e.propertyNames, name)
	e.properties = append(e.properties, monitor)
	e.propertyCounts = append(e.propertyCounts, 0)
	return e
}

func (e *Experiment) run(ctx context.Context, config *ComparisonConfig) {
	trainer := NewTrainer(&TrainerConfig{
		Episodes: config.Episodes,
		Horizon:  config.Horizon,
		Piles:    config.Piles,
		Policy:   e.policy,
		Progress: config.Progress,
	})
	e.Result = trainer.Run(ctx)

	for _, trace := range e.Result {
		for i, property := range e.properties {
			if _, ok := property.Check(trace); ok {
				e.propertyCounts[i]++
			}
		}
	}
	for i, name := range e.propertyNames {
		log.Info().
			Str("experiment", e.Name).
			Str("property", name).
			Int("episodes", e.propertyCounts[i]).
			Msg("property satisfied")
	}
}

// PropertyCount returns the number of episodes that satisfied the named
// property, accumulated over all runs.
func (e *Experiment) PropertyCount(name string) int {
	for i, n := range e.propertyNames {
		if n == name {
			return e.propertyCounts[i]
		}
	}
	return 0
}

// Reset clears the policy and the collected traces so the next run starts
// from scratch. Property counts accumulate across runs.
func (e *Experiment) Reset() {
	e.policy.Reset()
	e.Result = nil
}

// ComparisonConfig fixes the training parameters shared by all experiments
// in a comparison.
type ComparisonConfig struct {
	Runs     int
	Episodes int
	Horizon  int
	Piles    []int
	// SavePath receives plots, csv files and the comparison config
	SavePath string
	Progress bool
	// RecordTraces writes every episode to SavePath/traces as jsonl
	RecordTraces bool
}

// Comparison trains several experiments under the same parameters and
// hands their analyzed datasets to comparators, once per run.
type Comparison struct {
	Experiments []*Experiment

	config      *ComparisonConfig
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
}

func NewComparison(config *ComparisonConfig) *Comparison {
	if _, err := os.Stat(config.SavePath); err != nil {
		os.MkdirAll(config.SavePath, os.ModePerm)
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		config:      config,
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
	}
}

// AddAnalysis registers an analyzer with the comparator that consumes its
// datasets.
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) recordConfig() {
	f, err := os.Create(path.Join(c.config.SavePath, "comparison_config.json"))
	if err != nil {
		log.Error().Err(err).Msg("failed to record comparison config")
		return
	}
	defer f.Close()

	experiments := make([]string, 0, len(c.Experiments))
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	analyses := make([]string, 0, len(c.analyzers))
	for name := range c.analyzers {
		analyses = append(analyses, name)
	}

	out := map[string]interface{}{
		"runs":        c.config.Runs,
		"episodes":    c.config.Episodes,
		"horizon":     c.config.Horizon,
		"piles":       c.config.Piles,
		"experiments": experiments,
		"analyses":    analyses,
	}
	bs, err := json.Marshal(out)
	if err != nil {
		log.Error().Err(err).Msg("failed to record comparison config")
		return
	}
	f.Write(bs)
}

type tracedEpisode struct {
	States     []string `json:"states"`
	Actions    []string `json:"actions"`
	NextStates []string `json:"next_states"`
}

func (c *Comparison) recordTraces(run int, e *Experiment) {
	tracesDir := path.Join(c.config.SavePath, "traces")
	if _, err := os.Stat(tracesDir); err != nil {
		os.MkdirAll(tracesDir, os.ModePerm)
	}

	lines := make([]string, 0, len(e.Result))
	for _, trace := range e.Result {
		episode := tracedEpisode{
			States:     make([]string, 0, trace.Len()),
			Actions:    make([]string, 0, trace.Len()),
			NextStates: make([]string, 0, trace.Len()),
		}
		for i := 0; i < trace.Len(); i++ {
			s, a, ns, _ := trace.Get(i)
			episode.States = append(episode.States, s.Hash())
			episode.Actions = append(episode.Actions, a.Hash())
			episode.NextStates = append(episode.NextStates, ns.Hash())
		}
		bs, err := json.Marshal(episode)
		if err != nil {
			continue
		}
		lines = append(lines, string(bs))
	}

	file := path.Join(tracesDir, e.Name+"_"+strconv.Itoa(run)+".jsonl")
	if err := util.AppendToFile(file, lines...); err != nil {
		log.Error().Err(err).Str("path", file).Msg("failed to record traces")
	}
}

// Run trains every experiment for each run and feeds the analyzed
// datasets to the comparators. Experiments are reset between runs so the
// runs are independent.
func (c *Comparison) Run(ctx context.Context) {
	c.recordConfig()

	for run := 0; run < c.config.Runs; run++ {
		log.Info().Int("run", run+1).Int("of", c.config.Runs).Msg("comparison run")

		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}
		names := make([]string, len(c.Experiments))

		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return
			default:
			}
			log.Info().Str("experiment", e.Name).Msg("running experiment")
			e.run(ctx, c.config)
			for name, analyze := range c.analyzers {
				datasets[name][i] = analyze(e.Result)
			}
			if c.config.RecordTraces {
				c.recordTraces(run, e)
			}
			names[i] = e.Name
			e.Reset()
		}

		for name, compare := range c.comparators {
			compare(run, names, datasets[name])
		}
	}
}
