package commands

import "github.com/ilyakaznacheev/cleanenv"

// EnvConfig carries the defaults that can be set through the environment.
// Command line flags override these.
type EnvConfig struct {
	Episodes int     `env:"NIM_EPISODES" env-default:"10000"`
	Runs     int     `env:"NIM_RUNS" env-default:"1"`
	Horizon  int     `env:"NIM_HORIZON" env-default:"0"`
	Window   int     `env:"NIM_WINDOW" env-default:"100"`
	SavePath string  `env:"NIM_SAVE" env-default:"results"`
	Piles    []int   `env:"NIM_PILES" env-separator:"," env-default:"1,3,5,7"`
	Alpha    float64 `env:"NIM_ALPHA" env-default:"0.5"`
	Epsilon  float64 `env:"NIM_EPSILON" env-default:"0.1"`
	Seed     int64   `env:"NIM_SEED" env-default:"0"`
}

// LoadEnvConfig reads the defaults from the environment.
func LoadEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
