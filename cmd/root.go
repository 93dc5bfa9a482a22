package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizapp/internal/config"
	"github.com/abhisek/quizapp/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizapp",
	Short: "Timed multiple-choice quiz in the terminal",
	Long: "quizapp asks timed multiple-choice questions by category, scores each " +
		"attempt and keeps a local history.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		return setupLogging(config.DefaultLogPath(), debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, 0)
	},
}

func Execute() error {
	defer closeLogging()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZAPP_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file (overrides QUIZAPP_CONFIG env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the --config flag, then QUIZAPP_CONFIG, then
// the default XDG path.
func resolveConfigPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// loadSettings reads the config file named by resolveConfigPath.
func loadSettings(cmd *cobra.Command) (config.Settings, string, error) {
	path := resolveConfigPath(cmd)
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, path, err
	}
	return s, path, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZAPP_DB env var, then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, s config.Settings) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv(config.EnvDB); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := s.DBPath(); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStoreUnseeded loads settings and opens the database.
func openStoreUnseeded(cmd *cobra.Command) (*store.Store, config.Settings, string, error) {
	settings, cfgPath, err := loadSettings(cmd)
	if err != nil {
		return nil, config.Settings{}, cfgPath, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, settings)
	if err != nil {
		return nil, settings, cfgPath, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, settings, cfgPath, fmt.Errorf("open store: %w", err)
	}
	slog.Debug("store opened", "db", dbPath, "config", cfgPath)
	return st, settings, cfgPath, nil
}

// openStore is openStoreUnseeded plus seeding the built-in questions into
// an empty question table.
func openStore(cmd *cobra.Command) (*store.Store, config.Settings, string, error) {
	st, settings, cfgPath, err := openStoreUnseeded(cmd)
	if err != nil {
		return nil, settings, cfgPath, err
	}
	n, err := st.Seed(cmd.Context(), catalogDefault())
	if err != nil {
		st.Close()
		return nil, settings, cfgPath, fmt.Errorf("seed questions: %w", err)
	}
	if n > 0 {
		slog.Info("seeded question table", "questions", n)
	}
	return st, settings, cfgPath, nil
}
