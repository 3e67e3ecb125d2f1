package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"klangkiosk/internal/bootstrap"
	missiondto "klangkiosk/internal/modules/mission/dto"
	"klangkiosk/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "klangkiosk",
		Short:         "Klang-Kiosk terminal sound stations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "kiosk data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newMissionCmd(&dataDir))
	root.AddCommand(newTonesCmd(&dataDir))
	root.AddCommand(newPairsCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newSourcesCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (config.Config, *bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return config.Config{}, nil, err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, app, nil
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the kiosk terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(cfg, app)
		},
	}
}

func newMissionCmd(dataDir *string) *cobra.Command {
	mission := &cobra.Command{Use: "mission", Short: "Drive the Stimmspiel mission"}

	var tracePath string

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a frequency trace through the mission",
		Long: "Replays a trace file against the configured targets. Each line is\n" +
			"\"<offset_ms>,<frequency_hz>\"; an empty or zero frequency is silence.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			samples, err := readTrace(tracePath)
			if err != nil {
				return err
			}

			targets := make([]missiondto.TargetInput, 0, len(cfg.Mission.Targets))
			for _, t := range cfg.Mission.Targets {
				targets = append(targets, missiondto.TargetInput{
					Name: t.Name, FrequencyHz: t.FrequencyHz, Color: t.Color,
				})
			}

			ctx := context.Background()
			out, err := app.MissionCLI.Start(ctx, targets)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mission %s: %d targets, first %s (%.2f Hz)\n",
				out.MissionID, out.TotalTargets, out.Target.Name, out.Target.FrequencyHz)

			base := time.Now()
			last := base
			for _, sample := range samples {
				at := base.Add(sample.offset)
				last = at
				transitions, err := app.MissionCLI.Ingest(ctx, sample.frequencyHz, sample.voiced, at)
				if err != nil {
					return err
				}
				printTransitions(cmd, sample.offset, transitions)
				due, err := app.MissionCLI.Tick(ctx, at)
				if err != nil {
					return err
				}
				printTransitions(cmd, sample.offset, due)
			}

			// Let a trailing scheduled advance fire.
			final := last.Add(4 * time.Second)
			due, err := app.MissionCLI.Tick(ctx, final)
			if err != nil {
				return err
			}
			printTransitions(cmd, final.Sub(base), due)

			snap, err := app.MissionCLI.Snapshot(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "final state: %s (%d/%d targets)\n",
				snap.State, snap.CompletedCount, snap.TotalTargets)
			return nil
		},
	}
	simulateCmd.Flags().StringVar(&tracePath, "trace", "", "trace file path (required)")
	_ = simulateCmd.MarkFlagRequired("trace")

	mission.AddCommand(simulateCmd)
	return mission
}

func newTonesCmd(dataDir *string) *cobra.Command {
	tones := &cobra.Command{Use: "tones", Short: "Inspect the Klangtafel programs"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured tone programs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			programs, err := app.TonebankCLI.List(context.Background())
			if err != nil {
				return err
			}
			for _, p := range programs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-14s %d Töne  %.1f s\n",
					p.Code, p.Title, p.Steps, float64(p.DurationMs)/1000)
			}
			return nil
		},
	}

	playCmd := &cobra.Command{
		Use:   "play <code>",
		Short: "Resolve a barcode and print its pulse schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			scan, err := app.TonebankCLI.Scan(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%.1f s)\n",
				scan.Program.Title, float64(scan.Program.DurationMs)/1000)
			for _, pulse := range scan.Pulses {
				if pulse.Rest {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Pause    %4d ms\n", pulse.DurationMs)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %7.2f Hz %4d ms\n", pulse.FrequencyHz, pulse.DurationMs)
			}
			return nil
		},
	}

	tones.AddCommand(listCmd, playCmd)
	return tones
}

func newPairsCmd(dataDir *string) *cobra.Command {
	pairs := &cobra.Command{Use: "pairs", Short: "Inspect the Paare station"}

	var seed int64

	dealCmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal a board and print its layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			board, err := app.PairsCLI.Deal(context.Background(), seed)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seed %d, %d pairs\n", board.Seed, board.TotalPairs)
			for i, card := range board.Cards {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %2d  %s\n", i, card.Motif)
			}
			return nil
		},
	}
	dealCmd.Flags().Int64Var(&seed, "seed", 0, "layout seed (0 = random)")

	pairs.AddCommand(dealCmd)
	return pairs
}

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the station play log overview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			overview, err := app.StatsCLI.Overview(context.Background())
			if err != nil {
				return err
			}
			for _, total := range overview.Totals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-12s %4d Spiele\n", total.Station, total.Plays)
			}
			for _, run := range overview.RecentRuns {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stimmspiel  %s  %-12s %.1f s gehalten\n",
					run.CompletedAt.Format(time.RFC3339), run.TargetName, float64(run.HeldForMs)/1000)
			}
			for _, play := range overview.RecentPlays {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s  %s  %s\n",
					play.Station, play.PlayedAt.Format(time.RFC3339), play.Detail)
			}
			return nil
		},
	}
}

func newSourcesCmd(dataDir *string) *cobra.Command {
	sources := &cobra.Command{Use: "sources", Short: "Manage capture-source plugins"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered capture sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			infos, err := app.AnalyzerCLI.ListSources(context.Background())
			if err != nil {
				return err
			}
			for _, info := range infos {
				state := "enabled"
				if !info.Enabled {
					state = "disabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-16s v%-8s %-8s %s\n",
					info.Name, info.Version, state, info.Binary)
			}
			return nil
		},
	}

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check every registered capture source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			results, err := app.AnalyzerCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			failed := false
			for _, r := range results {
				mark := func(ok bool) string {
					if ok {
						return "ok"
					}
					failed = true
					return "FAIL"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-16s binary=%-4s checksum=%-4s lifecycle=%-4s",
					r.Name, mark(r.BinaryReachable), mark(r.ChecksumValid), mark(r.LifecycleOK))
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if failed {
				return fmt.Errorf("doctor found unhealthy sources")
			}
			return nil
		},
	}

	sources.AddCommand(listCmd, doctorCmd)
	return sources
}

// ─── trace parsing ────────────────────────────────────────────────────────────

type traceSample struct {
	offset      time.Duration
	frequencyHz float64
	voiced      bool
}

// readTrace parses "<offset_ms>,<frequency_hz>" lines. Blank lines and lines
// starting with # are skipped; a missing or zero frequency means silence.
func readTrace(path string) ([]traceSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer func() { _ = file.Close() }()

	var samples []traceSample
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.SplitN(text, ",", 2)
		ms, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("trace line %d: bad offset %q", line, parts[0])
		}
		sample := traceSample{offset: time.Duration(ms) * time.Millisecond}
		if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
			freq, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("trace line %d: bad frequency %q", line, parts[1])
			}
			if freq > 0 {
				sample.frequencyHz = freq
				sample.voiced = true
			}
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return samples, nil
}

func printTransitions(cmd *cobra.Command, offset time.Duration, transitions []missiondto.TransitionOutput) {
	for _, t := range transitions {
		switch t.Kind {
		case "target_completed":
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%7dms  %s: %s (held %.1f s)\n",
				offset.Milliseconds(), t.Kind, t.Target.Name, float64(t.HeldForMs)/1000)
		case "endless_entered":
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%7dms  %s\n", offset.Milliseconds(), t.Kind)
		default:
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%7dms  %s: %s\n",
				offset.Milliseconds(), t.Kind, t.Target.Name)
		}
	}
}
