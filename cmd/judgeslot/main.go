package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/awalker/judgeslot/internal/config"
	"github.com/awalker/judgeslot/internal/excel"
	"github.com/awalker/judgeslot/internal/schedule"
	"github.com/awalker/judgeslot/internal/server"
	"github.com/awalker/judgeslot/internal/state"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "judgeslot",
		Short: "Competition judging slot scheduler",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the scheduling API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runServe(configPath)
		},
	}

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate <match-feed.json>",
		Short:        "Generate a judging schedule from a match feed file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, args[0], outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "judging-schedule.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate",
		Short:        "Check the stored schedule against the scheduling invariants",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath)
		},
	}

	rootCmd.AddCommand(initCmd, serveCmd, generateCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# judgeslot configuration
# =======================
# Parameters for generating and recovering a competition judging schedule.

judging:
  # Number of judge pairs. Each pair evaluates one team at a time.
  judge_pairs: 4

  # Length of each judging slot, in minutes.
  slot_minutes: 10

  # Competition match block length in minutes. Half of it is kept clear on
  # both sides of a match when rescheduling a no-show team, so a judging
  # slot is never booked flush against a match. Set to 0 to disable.
  block_minutes: 8

  # Judging window. Times accept "9:00 AM" or 24-hour "13:00" and apply to
  # the current day.
  start_time: "9:00 AM"
  end_time: "1:00 PM"

server:
  listen: ":8080"
  data_path: "judgeslot.db"

  # "development" enables debug logging.
  environment: "production"
`

func setupLogger(environment string) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger().Level(level)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func runServe(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := state.Open(cfg.Server.DataPath)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	logger := setupLogger(cfg.Server.Environment)
	return server.New(cfg, store, logger, newRand()).ListenAndServe()
}

func runGenerate(configPath, feedPath, outputPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rawFeed, err := os.ReadFile(feedPath)
	if err != nil {
		return fmt.Errorf("reading match feed: %w", err)
	}

	today := time.Now()
	windowStart := cfg.Judging.StartTime.On(today)
	windowEnd := cfg.Judging.EndTime.On(today)

	result, err := schedule.GenerateInitialSchedule(
		cfg.Judging.JudgePairs, cfg.Judging.SlotMinutes, windowStart, windowEnd, string(rawFeed), newRand())
	if err != nil {
		return err
	}

	assigned := 0
	for _, s := range result.Slots {
		if s.Team != "" {
			assigned++
		}
	}
	fmt.Printf("✓ Assigned %d of %d teams across %d judge pairs\n",
		assigned, len(result.TeamMatches), cfg.Judging.JudgePairs)
	if len(result.Unassigned) > 0 {
		fmt.Printf("\nUnassigned teams (%d):\n", len(result.Unassigned))
		for _, team := range result.Unassigned {
			fmt.Printf("  ⚠ %s\n", team)
		}
	}

	version, err := state.NewVersion("Initial schedule", state.TypeInitial, result.Slots)
	if err != nil {
		return err
	}
	st := &state.State{
		Config: state.ScheduleConfig{
			JudgePairs:      cfg.Judging.JudgePairs,
			SlotMinutes:     cfg.Judging.SlotMinutes,
			DurationMinutes: cfg.Judging.DurationMinutes(),
			BlockMinutes:    cfg.Judging.BlockMinutes,
			StartTime:       windowStart,
			EndTime:         windowEnd,
		},
		TeamCount:   len(result.TeamMatches),
		Slots:       result.Slots,
		Unassigned:  result.Unassigned,
		TeamMatches: result.TeamMatches,
	}
	st.AppendVersion(version)
	st.SetActive(version.ID, result.Slots)

	store, err := state.Open(cfg.Server.DataPath)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()
	if err := store.Save(st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	f, err := excel.Generate(st)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runValidate(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := state.Open(cfg.Server.DataPath)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	st, err := store.Load()
	if err != nil {
		return err
	}
	if len(st.Slots) == 0 {
		return fmt.Errorf("no schedule to validate; run generate first")
	}

	violations := schedule.Verify(st.Slots, st.Config.JudgePairs)
	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Invariant violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", errors, warnings)
	if errors > 0 {
		return fmt.Errorf("%d invariant violations found", errors)
	}
	return nil
}
