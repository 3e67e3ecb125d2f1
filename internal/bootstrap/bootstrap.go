package bootstrap

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	analyzerinadapter "klangkiosk/internal/modules/analyzer/adapter/in"
	analyzeroutadapter "klangkiosk/internal/modules/analyzer/adapter/out"
	analyzerdomain "klangkiosk/internal/modules/analyzer/domain"
	analyzerout "klangkiosk/internal/modules/analyzer/port/out"
	analyzerservice "klangkiosk/internal/modules/analyzer/service"
	analyzerusecase "klangkiosk/internal/modules/analyzer/usecase"
	missioninadapter "klangkiosk/internal/modules/mission/adapter/in"
	missionoutadapter "klangkiosk/internal/modules/mission/adapter/out"
	missiondto "klangkiosk/internal/modules/mission/dto"
	missionin "klangkiosk/internal/modules/mission/port/in"
	missionservice "klangkiosk/internal/modules/mission/service"
	missionusecase "klangkiosk/internal/modules/mission/usecase"
	pairsinadapter "klangkiosk/internal/modules/pairs/adapter/in"
	pairsoutadapter "klangkiosk/internal/modules/pairs/adapter/out"
	pairsin "klangkiosk/internal/modules/pairs/port/in"
	pairsservice "klangkiosk/internal/modules/pairs/service"
	pairsusecase "klangkiosk/internal/modules/pairs/usecase"
	statsinadapter "klangkiosk/internal/modules/stats/adapter/in"
	statsoutadapter "klangkiosk/internal/modules/stats/adapter/out"
	statsin "klangkiosk/internal/modules/stats/port/in"
	statsservice "klangkiosk/internal/modules/stats/service"
	statsusecase "klangkiosk/internal/modules/stats/usecase"
	tonebankinadapter "klangkiosk/internal/modules/tonebank/adapter/in"
	tonebankoutadapter "klangkiosk/internal/modules/tonebank/adapter/out"
	tonebankdomain "klangkiosk/internal/modules/tonebank/domain"
	tonebankin "klangkiosk/internal/modules/tonebank/port/in"
	tonebankservice "klangkiosk/internal/modules/tonebank/service"
	tonebankusecase "klangkiosk/internal/modules/tonebank/usecase"
	"klangkiosk/internal/platform/clock"
	"klangkiosk/internal/platform/config"
	"klangkiosk/internal/platform/id"
	"klangkiosk/internal/platform/tx"
	uiapp "klangkiosk/internal/ui/app"
)

// App holds the wired inbound adapters plus what the TUI needs directly.
type App struct {
	MissionCLI  missioninadapter.CLIHandler
	AnalyzerCLI analyzerinadapter.CLIHandler
	TonebankCLI tonebankinadapter.CLIHandler
	PairsCLI    pairsinadapter.CLIHandler
	StatsCLI    statsinadapter.CLIHandler

	Mission  missionin.Usecase
	Tonebank tonebankin.Usecase
	Pairs    pairsin.Usecase
	Stats    statsin.Usecase
	Analyzer *analyzerservice.AnalyzerService

	store *statsoutadapter.SQLitePlayStore
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	store, err := statsoutadapter.NewSQLitePlayStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new play store: %w", err)
	}
	txm := tx.NewSQLManager(store.DB())
	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(clk, ids, store, txm))

	missionSvc := missionservice.NewMissionService(clk, ids, missionoutadapter.NewStatsRunRecorder(statsUC))
	missionUC := missionusecase.NewInteractor(missionSvc)

	source, err := buildSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("build capture source: %w", err)
	}
	analyzerSvc, err := analyzerservice.NewAnalyzerService(
		analyzerdomain.SearchRange{MinHz: cfg.Analyzer.MinHz, MaxHz: cfg.Analyzer.MaxHz},
		cfg.Analyzer.EnergyFloor,
		source,
		analyzeroutadapter.NewFileManifestStore(cfg.DataDir),
		analyzeroutadapter.NewGRPCSourceHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("new analyzer: %w", err)
	}

	programs := make([]tonebankdomain.Program, 0, len(cfg.Tonebank.Programs))
	for _, p := range cfg.Tonebank.Programs {
		program := tonebankdomain.Program{Code: p.Code, Title: p.Title, Color: p.Color}
		for _, s := range p.Steps {
			program.Steps = append(program.Steps, tonebankdomain.Step{
				Note:       s.Note,
				Octave:     s.Octave,
				DurationMs: s.DurationMs,
				PauseMs:    s.PauseMs,
			})
		}
		programs = append(programs, program)
	}
	toneSvc, err := tonebankservice.NewToneService(programs, tonebankoutadapter.NewStatsPlayRecorder(statsUC))
	if err != nil {
		return nil, fmt.Errorf("new tone service: %w", err)
	}
	toneUC := tonebankusecase.New(toneSvc)

	pairsUC := pairsusecase.New(pairsservice.NewPairsService(
		clk,
		pairsoutadapter.NewStatsSolveRecorder(statsUC),
		cfg.Pairs.Motifs,
		time.Duration(cfg.Pairs.RevealDelayMs)*time.Millisecond,
	))

	return &App{
		MissionCLI:  missioninadapter.NewCLIHandler(missionUC),
		AnalyzerCLI: analyzerinadapter.NewCLIHandler(analyzerusecase.NewInteractor(analyzerSvc)),
		TonebankCLI: tonebankinadapter.NewCLIHandler(toneUC),
		PairsCLI:    pairsinadapter.NewCLIHandler(pairsUC),
		StatsCLI:    statsinadapter.NewCLIHandler(statsUC),

		Mission:  missionUC,
		Tonebank: toneUC,
		Pairs:    pairsUC,
		Stats:    statsUC,
		Analyzer: analyzerSvc,

		store: store,
	}, nil
}

// buildSource picks the configured capture source. "synth" loops a sweep
// over the mission targets so the kiosk demos itself without a microphone
// plugin; any other name must match a manifest in sources.json.
func buildSource(cfg config.Config) (analyzerout.FrameSource, error) {
	if cfg.Analyzer.Source == "" || cfg.Analyzer.Source == "synth" {
		frequencies := make([]float64, 0, len(cfg.Mission.Targets))
		for _, t := range cfg.Mission.Targets {
			frequencies = append(frequencies, t.FrequencyHz)
		}
		script := analyzeroutadapter.SweepScript(frequencies, 60, 15)
		return analyzeroutadapter.NewSynthSource(cfg.Analyzer.SampleRate, cfg.Analyzer.FFTSize, script)
	}

	manifests, err := analyzeroutadapter.NewFileManifestStore(cfg.DataDir).Load(context.Background())
	if err != nil {
		return nil, err
	}
	for _, m := range manifests {
		if m.Name == cfg.Analyzer.Source {
			return analyzeroutadapter.NewGRPCSourceHost().Open(context.Background(), m)
		}
	}
	return nil, fmt.Errorf("capture source %q not registered", cfg.Analyzer.Source)
}

// Close releases the analyzer stream and the play store.
func (a *App) Close() error {
	if err := a.Analyzer.Stop(); err != nil {
		return err
	}
	return a.store.Close()
}

func RunTUI(cfg config.Config, app *App) error {
	if err := app.Analyzer.Start(context.Background()); err != nil {
		return fmt.Errorf("open capture source: %w", err)
	}

	targets := make([]missiondto.TargetInput, 0, len(cfg.Mission.Targets))
	for _, t := range cfg.Mission.Targets {
		targets = append(targets, missiondto.TargetInput{
			Name:        t.Name,
			FrequencyHz: t.FrequencyHz,
			Color:       t.Color,
		})
	}

	model := uiapp.NewModel(
		app.Mission,
		analyzerusecase.NewInteractor(app.Analyzer),
		app.Tonebank,
		app.Pairs,
		app.Stats,
		targets,
		cfg.FrameRate,
	)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
