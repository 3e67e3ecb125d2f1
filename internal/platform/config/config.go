package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the kiosk configuration, loaded from kiosk.yaml in the data
// directory. A missing file yields the built-in defaults; a present but
// malformed file is an error.
type Config struct {
	DataDir   string         `yaml:"-"`
	DBPath    string         `yaml:"-"`
	FrameRate int            `yaml:"frame_rate"`
	Analyzer  AnalyzerConfig `yaml:"analyzer"`
	Mission   MissionConfig  `yaml:"mission"`
	Tonebank  TonebankConfig `yaml:"tonebank"`
	Pairs     PairsConfig    `yaml:"pairs"`
}

type AnalyzerConfig struct {
	SampleRate  int     `yaml:"sample_rate"`
	FFTSize     int     `yaml:"fft_size"`
	MinHz       float64 `yaml:"min_hz"`
	MaxHz       float64 `yaml:"max_hz"`
	EnergyFloor float64 `yaml:"energy_floor"`
	Source      string  `yaml:"source"`
}

type MissionConfig struct {
	Targets []TargetConfig `yaml:"targets"`
}

type TargetConfig struct {
	Name        string  `yaml:"name"`
	FrequencyHz float64 `yaml:"frequency_hz"`
	Color       string  `yaml:"color"`
}

type TonebankConfig struct {
	Programs []ProgramConfig `yaml:"programs"`
}

type ProgramConfig struct {
	Code  string       `yaml:"code"`
	Title string       `yaml:"title"`
	Color string       `yaml:"color"`
	Steps []StepConfig `yaml:"steps"`
}

type StepConfig struct {
	Note       string `yaml:"note"`
	Octave     int    `yaml:"octave"`
	DurationMs int    `yaml:"duration_ms"`
	PauseMs    int    `yaml:"pause_ms"`
}

type PairsConfig struct {
	Motifs        []string `yaml:"motifs"`
	RevealDelayMs int      `yaml:"reveal_delay_ms"`
}

func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := defaults()
	raw, err := os.ReadFile(filepath.Join(dataDir, "kiosk.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read kiosk config: %w", err)
		}
	} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal kiosk config: %w", err)
	}

	cfg.DataDir = dataDir
	cfg.DBPath = filepath.Join(dataDir, ".klangkiosk", "klangkiosk.db")
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SourcesPath locates the capture-source manifest file.
func (c Config) SourcesPath() string {
	return filepath.Join(c.DataDir, "sources.json")
}

func (c Config) validate() error {
	if c.FrameRate < 1 || c.FrameRate > 120 {
		return fmt.Errorf("frame_rate must be within [1,120], got %d", c.FrameRate)
	}
	if c.Analyzer.FFTSize < 2 || c.Analyzer.FFTSize&(c.Analyzer.FFTSize-1) != 0 {
		return fmt.Errorf("analyzer fft_size must be a power of two, got %d", c.Analyzer.FFTSize)
	}
	if c.Analyzer.MinHz <= 0 || c.Analyzer.MaxHz <= c.Analyzer.MinHz {
		return fmt.Errorf("analyzer search range [%g,%g] is invalid", c.Analyzer.MinHz, c.Analyzer.MaxHz)
	}
	if len(c.Mission.Targets) == 0 {
		return fmt.Errorf("mission needs at least one target tone")
	}
	for _, t := range c.Mission.Targets {
		if t.FrequencyHz <= 0 {
			return fmt.Errorf("target %q has invalid frequency %g", t.Name, t.FrequencyHz)
		}
	}
	if len(c.Pairs.Motifs) < 2 {
		return fmt.Errorf("pairs needs at least two motifs")
	}
	if c.Pairs.RevealDelayMs <= 0 {
		return fmt.Errorf("pairs reveal_delay_ms must be positive")
	}
	return nil
}

func defaults() Config {
	return Config{
		FrameRate: 30,
		Analyzer: AnalyzerConfig{
			SampleRate:  44100,
			FFTSize:     2048,
			MinHz:       80,
			MaxHz:       1200,
			EnergyFloor: 0.08,
			Source:      "synth",
		},
		Mission: MissionConfig{
			Targets: []TargetConfig{
				{Name: "Tiefes A", FrequencyHz: 220, Color: "blau"},
				{Name: "Kammerton A", FrequencyHz: 440, Color: "gelb"},
				{Name: "Hohes E", FrequencyHz: 659.26, Color: "rot"},
			},
		},
		Tonebank: TonebankConfig{
			Programs: []ProgramConfig{
				{
					Code: "sonnenlied", Title: "Sonnenlied", Color: "gelb",
					Steps: []StepConfig{
						{Note: "C", Octave: 5, DurationMs: 300, PauseMs: 100},
						{Note: "G", Octave: 4, DurationMs: 150, PauseMs: 50},
						{Note: "G", Octave: 4, DurationMs: 150, PauseMs: 50},
						{Note: "A", Octave: 4, DurationMs: 300, PauseMs: 100},
						{Note: "G", Octave: 4, DurationMs: 400, PauseMs: 400},
						{Note: "H", Octave: 4, DurationMs: 300, PauseMs: 100},
						{Note: "C", Octave: 5, DurationMs: 500},
					},
				},
				{
					Code: "brummbaer", Title: "Brummbär", Color: "braun",
					Steps: []StepConfig{
						{Note: "C", Octave: 3, DurationMs: 500, PauseMs: 200},
						{Note: "E", Octave: 3, DurationMs: 500, PauseMs: 200},
						{Note: "G", Octave: 3, DurationMs: 700},
					},
				},
				{
					Code: "vogelruf", Title: "Vogelruf", Color: "gruen",
					Steps: []StepConfig{
						{Note: "E", Octave: 6, DurationMs: 120, PauseMs: 80},
						{Note: "C", Octave: 6, DurationMs: 120, PauseMs: 80},
						{Note: "E", Octave: 6, DurationMs: 120, PauseMs: 80},
						{Note: "G", Octave: 6, DurationMs: 250},
					},
				},
			},
		},
		Pairs: PairsConfig{
			Motifs:        []string{"Glocke", "Trommel", "Flöte", "Geige", "Tuba", "Harfe"},
			RevealDelayMs: 1200,
		},
	}
}
