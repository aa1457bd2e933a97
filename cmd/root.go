package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neetprep/neetprep/internal/llm"
	"github.com/neetprep/neetprep/internal/logging"
	"github.com/neetprep/neetprep/internal/qgen"
	"github.com/neetprep/neetprep/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "neetprep",
	Short: "Adaptive NEET practice from the terminal",
	Long:  "Neetprep tracks per-topic mastery across Physics, Chemistry and Biology and picks the next question to close your weakest gaps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

var logger *zap.Logger

func Execute() error {
	// Missing .env is the normal case; keys may come from the real env.
	_ = godotenv.Load()
	logger = logging.New()
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NEETPREP_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "User id (defaults to NEETPREP_USER, then \"default\")")

	rootCmd.Flags().StringP("subject", "s", "", "Limit the session to one subject (physics, chemistry, biology)")
	rootCmd.Flags().IntP("count", "n", 10, "Number of questions in the session")

	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(syllabusCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then NEETPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database and seeds the sample question bank on
// first run.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.Seed(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed question bank: %w", err)
	}
	return st, nil
}

// resolveUser returns the acting user id from flag, env, or "default".
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("NEETPREP_USER"); u != "" {
		return u
	}
	return "default"
}

// buildGenerator wires the question generator from env configuration.
// A missing API key is not fatal: practice works from the stored bank,
// only the generation fallback goes away.
func buildGenerator(ctx context.Context) qgen.Generator {
	provider, err := llm.NewProvider(ctx, llm.ConfigFromEnv(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question generation will be unavailable.")
		return nil
	}
	return qgen.New(provider, qgen.DefaultConfig())
}
