package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-docs/internal/aggregate"
	"github.com/jonathan/career-docs/internal/config"
	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/facts"
	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/observability"
	"github.com/jonathan/career-docs/internal/types"
)

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Extract a fact inventory from candidate documents",
	Long: `Aggregates the candidate's documents into a corpus and extracts the
structured fact inventory that grounds generation. The inventory is
printed as JSON; a provider failure prints an empty inventory and exits
with a warning instead of an error.

Documents are given as paths or kind:path (kind: cv, experience, other).`,
	RunE: runExtractCmd,
}

var (
	extractConfigPath string
	extractDocs       []string
	extractProfileID  string
	extractName       string
	extractSummary    string
	extractAPIKey     string
	extractDBURL      string
	extractVerbose    bool
)

func init() {
	extractCommand.Flags().StringVar(&extractConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	extractCommand.Flags().StringArrayVarP(&extractDocs, "doc", "d", nil, "Document file, as path or kind:path (repeatable)")
	extractCommand.Flags().StringVar(&extractProfileID, "profile-id", "", "Stored profile UUID to load documents from the database")
	extractCommand.Flags().StringVarP(&extractName, "name", "n", "", "Candidate name")
	extractCommand.Flags().StringVar(&extractSummary, "summary", "", "Candidate profile summary")
	extractCommand.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	extractCommand.Flags().StringVar(&extractDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	extractCommand.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a formatted inventory summary")

	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if extractConfigPath != "" {
		loaded, err := config.LoadConfig(extractConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("profile-id") {
		cfg.ProfileID = extractProfileID
	}
	if cmd.Flags().Changed("name") {
		cfg.Name = extractName
	}
	if cmd.Flags().Changed("summary") {
		cfg.Summary = extractSummary
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = extractAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = extractDBURL
	}
	if len(extractDocs) > 0 {
		cfg.Documents = extractDocs
	}

	apiKey, err := requireAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	profile := types.Profile{Name: cfg.Name, Summary: cfg.Summary}
	var documents []types.Document

	if cfg.ProfileID != "" {
		dbURL := cfg.DatabaseURL
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required with --profile-id")
		}

		database, err := db.Connect(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		profile, documents, _, err = loadStoredProfile(ctx, database, cfg.ProfileID)
		if err != nil {
			return err
		}
	} else {
		documents, err = loadDocuments(cfg.Documents)
		if err != nil {
			return err
		}
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	corpus := aggregate.BuildCorpus(profile, documents)
	inventory, softErr := facts.NewExtractor(client).Extract(ctx, corpus)
	if softErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: extraction degraded, returning empty inventory: %v\n", softErr)
	}

	if extractVerbose {
		observability.NewPrinter(os.Stdout).PrintInventory(inventory)
	}

	fmt.Println(facts.FormatInventory(inventory))
	return nil
}
