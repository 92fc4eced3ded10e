package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bf2799/pppl-league-app/internal/config"
	"github.com/bf2799/pppl-league-app/internal/excel"
	"github.com/bf2799/pppl-league-app/internal/logging"
	"github.com/bf2799/pppl-league-app/internal/schedule"
	"github.com/bf2799/pppl-league-app/internal/store"
	"github.com/bf2799/pppl-league-app/internal/strategy"
	"github.com/bf2799/pppl-league-app/internal/validator"
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
		Use:   "pppl",
		Short: "PPPL league season schedule generator",
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

	playersCmd := &cobra.Command{
		Use:   "players",
		Short: "Manage the player roster in the league database",
	}

	var addOpts addPlayerOptions
	addPlayerCmd := &cobra.Command{
		Use:          "add <name>...",
		Short:        "Add players to the roster",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runAddPlayers(cmd.Context(), configPath, args, addOpts)
		},
	}
	addPlayerCmd.Flags().StringSliceVarP(&addOpts.roles, "role", "r", nil, "Role to give the new players (repeatable)")
	addPlayerCmd.Flags().StringVar(&addOpts.logoPath, "logo", "", "Logo image file (single player only)")
	addPlayerCmd.Flags().StringVar(&addOpts.headshotPath, "headshot", "", "Headshot image file (single player only)")

	listPlayersCmd := &cobra.Command{
		Use:          "list",
		Short:        "List the roster",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runListPlayers(cmd.Context(), configPath)
		},
	}
	playersCmd.AddCommand(addPlayerCmd, listPlayersCmd)

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage player roles in the league database",
	}

	addRoleCmd := &cobra.Command{
		Use:          "add <role>...",
		Short:        "Add roles",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runAddRoles(cmd.Context(), configPath, args)
		},
	}

	listRolesCmd := &cobra.Command{
		Use:          "list",
		Short:        "List roles",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runListRoles(cmd.Context(), configPath)
		},
	}
	rolesCmd.AddCommand(addRoleCmd, listRolesCmd)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate schedules",
	}

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), configPath, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule against the roster and games-per-player target",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(cmd.Context(), configPath, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, playersCmd, rolesCmd, scheduleCmd)
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

const configTemplate = `# PPPL Season Configuration
# =========================
# This file defines the parameters for generating a season schedule.

season:
  # The season is stored under its start date.
  start_date: "2026-04-25"
  # Optional. Leave out while the season is still open.
  # end_date: "2026-08-29"

  # Every player gets at least this many games. Some players may get one
  # more, since each game counts for two players at once.
  games_per_player: 6

# Players in the league. Roster order breaks exact ties, so the first
# game is always the first player at home against the second.
# Leave this out to use the players stored in the database instead.
players:
  - Ace
  - Bert
  - Cass
  - Dot

# Strategy determines how matchups are generated.
# "fair_round_robin" evens out meetings between players, home/away sides,
# and rest between games, in that order of priority.
strategy: fair_round_robin

# Optional SQLite database. When set, generated seasons are saved to it and
# 'pppl players' and 'pppl roles' manage its roster.
# database: pppl.db

# trace, debug, info, warn, error or off
log_level: info
`

func loadConfig(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, logging.Nop(), fmt.Errorf("loading config: %w", err)
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel), nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store.Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("no database configured; set 'database' in the config file")
	}
	return store.Open(ctx, cfg.Database, log)
}

// roster returns the players to schedule: the config list when present,
// otherwise the database roster.
func roster(ctx context.Context, cfg *config.Config, log zerolog.Logger) ([]string, error) {
	if cfg.HasRoster() {
		return cfg.Players, nil
	}
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.PlayerNames(ctx)
}

type addPlayerOptions struct {
	roles        []string
	logoPath     string
	headshotPath string
}

func (o addPlayerOptions) images() (store.PlayerImages, error) {
	var images store.PlayerImages
	var err error
	if o.logoPath != "" {
		if images.Logo, err = os.ReadFile(o.logoPath); err != nil {
			return images, fmt.Errorf("reading logo: %w", err)
		}
	}
	if o.headshotPath != "" {
		if images.Headshot, err = os.ReadFile(o.headshotPath); err != nil {
			return images, fmt.Errorf("reading headshot: %w", err)
		}
	}
	return images, nil
}

func runAddPlayers(ctx context.Context, configPath string, names []string, opts addPlayerOptions) error {
	if len(names) > 1 && (opts.logoPath != "" || opts.headshotPath != "") {
		return fmt.Errorf("--logo and --headshot apply to a single player, got %d", len(names))
	}
	images, err := opts.images()
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	// Check roles up front so a typo adds no one.
	known, err := st.RoleNames(ctx)
	if err != nil {
		return err
	}
	for _, r := range opts.roles {
		if !containsFold(known, strings.TrimSpace(r)) {
			return fmt.Errorf("%w: %s (add it with 'pppl roles add')", store.ErrUnknownRole, r)
		}
	}

	for _, name := range names {
		if _, err := st.AddPlayer(ctx, name); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		if images.Logo != nil || images.Headshot != nil {
			if err := st.SetPlayerImages(ctx, name, images); err != nil {
				return fmt.Errorf("saving images for %s: %w", name, err)
			}
		}
		for _, r := range opts.roles {
			if err := st.AssignRole(ctx, name, r); err != nil {
				return fmt.Errorf("giving %s role %s: %w", name, r, err)
			}
		}
		fmt.Printf("✓ Added %s\n", strings.TrimSpace(name))
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}

func runListPlayers(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := st.PlayerNames(ctx)
	if err != nil {
		return err
	}
	for i, name := range names {
		roles, err := st.PlayerRoles(ctx, name)
		if err != nil {
			return err
		}
		if len(roles) == 0 {
			fmt.Printf("%3d  %s\n", i+1, name)
			continue
		}
		fmt.Printf("%3d  %s (%s)\n", i+1, name, strings.Join(roles, ", "))
	}
	fmt.Printf("\n%d players\n", len(names))
	return nil
}

func runAddRoles(ctx context.Context, configPath string, roles []string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, r := range roles {
		if _, err := st.AddRole(ctx, r); err != nil {
			return fmt.Errorf("adding role %s: %w", r, err)
		}
		fmt.Printf("✓ Added role %s\n", strings.TrimSpace(r))
	}
	return nil
}

func runListRoles(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	roles, err := st.RoleNames(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		fmt.Printf("  %s\n", r)
	}
	fmt.Printf("\n%d roles\n", len(roles))
	return nil
}

func runGenerate(ctx context.Context, configPath, outputPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	players, err := roster(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}

	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return err
	}

	fmt.Printf("Scheduling %d players for at least %d games each...\n", len(players), cfg.Season.GamesPerPlayer)
	games, err := strat.GenerateMatchups(players, cfg.Season.GamesPerPlayer)
	if err != nil {
		return err
	}
	log.Debug().Int("games", len(games)).Str("strategy", cfg.Strategy).Msg("matchups generated")
	fmt.Printf("✓ %d games scheduled\n", len(games))

	printMetrics(players, games)

	// Save the season first so a rejected season leaves the output file alone.
	if cfg.Database != "" {
		if err := saveSeason(ctx, cfg, log, players, games); err != nil {
			return err
		}
	}

	f, err := excel.Generate(players, games)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func printMetrics(players []string, games []strategy.Game) {
	tallies := schedule.Tally(players, strategy.Pairings(games))

	width := len("Player")
	for _, p := range players {
		width = max(width, len(p))
	}

	fmt.Println("\nPer Player Metrics:")
	fmt.Printf("  %-*s %6s %5s %5s\n", width, "Player", "Games", "Home", "Away")
	for _, p := range players {
		t := tallies[p]
		fmt.Printf("  %-*s %6d %5d %5d\n", width, p, t.Games, t.Home, t.Away)
	}

	fewest, most := schedule.MeetingSpread(players, strategy.Pairings(games))
	fmt.Printf("\nEvery pair of players meets %d to %d times\n", fewest, most)
}

// saveSeason stores the season, adding any config-only players to the
// database roster first.
func saveSeason(ctx context.Context, cfg *config.Config, log zerolog.Logger, players []string, games []strategy.Game) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	known, err := st.PlayerNames(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(known))
	for _, n := range known {
		have[strings.ToLower(n)] = true
	}
	for _, p := range players {
		if have[strings.ToLower(p)] {
			continue
		}
		if _, err := st.AddPlayer(ctx, p); err != nil {
			return fmt.Errorf("adding %s: %w", p, err)
		}
	}

	var end *time.Time
	if cfg.Season.EndDate != nil {
		end = &cfg.Season.EndDate.Time
	}
	id, err := st.CreateSeason(ctx, cfg.Season.StartDate.Time, end, games)
	if err != nil {
		return fmt.Errorf("saving season: %w", err)
	}
	fmt.Printf("✓ Season %d (starting %s) saved to %s\n", id, cfg.Season.StartDate, cfg.Database)
	return nil
}

func runValidate(ctx context.Context, configPath, schedulePath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	players, err := roster(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}

	violations, err := validator.Validate(players, cfg.Season.GamesPerPlayer, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)

	// Regenerate player sheets from master schedule
	if err := excel.UpdatePlayerSheets(schedulePath, players); err != nil {
		return fmt.Errorf("updating player sheets: %w", err)
	}
	fmt.Printf("✓ Player sheets updated in %s\n", schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}
