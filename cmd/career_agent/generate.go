package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-docs/internal/config"
	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/generate"
	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/pipeline"
	"github.com/jonathan/career-docs/internal/types"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate a career document grounded in the fact inventory",
	Long: `Runs the full pipeline: aggregates the candidate's documents, extracts
the fact inventory, then streams the claim-constrained artifact to stdout.

If extraction fails the run degrades to document-grounded generation
rather than aborting. A generation failure is terminal.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath   string
	genKind         string
	genLanguage     string
	genJobTitle     string
	genJobDesc      string
	genJobDescFile  string
	genDocs         []string
	genProfileID    string
	genName         string
	genSummary      string
	genEmail        string
	genPhone        string
	genInstructions string
	genAPIKey       string
	genDBURL        string
	genVerbose      bool
)

func init() {
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCommand.Flags().StringVarP(&genKind, "kind", "k", "", "Document kind: cover_letter, executive_summary or interview_prep")
	generateCommand.Flags().StringVarP(&genLanguage, "language", "l", "", "Output language: en or da")
	generateCommand.Flags().StringVar(&genJobTitle, "job-title", "", "Target job title")
	generateCommand.Flags().StringVar(&genJobDesc, "job-description", "", "Target job description text (mutually exclusive with --job-file)")
	generateCommand.Flags().StringVar(&genJobDescFile, "job-file", "", "Path to a file holding the job description")
	generateCommand.Flags().StringArrayVarP(&genDocs, "doc", "d", nil, "Document file, as path or kind:path (repeatable)")
	generateCommand.Flags().StringVar(&genProfileID, "profile-id", "", "Stored profile UUID to load documents from the database")
	generateCommand.Flags().StringVarP(&genName, "name", "n", "", "Candidate name")
	generateCommand.Flags().StringVar(&genSummary, "summary", "", "Candidate profile summary")
	generateCommand.Flags().StringVar(&genEmail, "email", "", "Candidate email")
	generateCommand.Flags().StringVar(&genPhone, "phone", "", "Candidate phone")
	generateCommand.Flags().StringVar(&genInstructions, "instructions", "", "Custom style instructions")
	generateCommand.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateCommand.Flags().StringVar(&genDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if genConfigPath != "" {
		loaded, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("kind") {
		cfg.Kind = genKind
	}
	if cmd.Flags().Changed("language") {
		cfg.Language = genLanguage
	}
	if cmd.Flags().Changed("profile-id") {
		cfg.ProfileID = genProfileID
	}
	if cmd.Flags().Changed("name") {
		cfg.Name = genName
	}
	if cmd.Flags().Changed("summary") {
		cfg.Summary = genSummary
	}
	if cmd.Flags().Changed("email") {
		cfg.Email = genEmail
	}
	if cmd.Flags().Changed("phone") {
		cfg.Phone = genPhone
	}
	if cmd.Flags().Changed("instructions") {
		cfg.Instructions = genInstructions
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDBURL
	}
	if len(genDocs) > 0 {
		cfg.Documents = genDocs
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Kind:     string(generate.KindCoverLetter),
		Language: string(generate.LanguageEnglish),
	})

	if genJobTitle == "" {
		return fmt.Errorf("--job-title is required")
	}
	jobDescription := genJobDesc
	if genJobDescFile != "" {
		if jobDescription != "" {
			return fmt.Errorf("--job-description and --job-file are mutually exclusive; provide only one")
		}
		data, err := os.ReadFile(genJobDescFile)
		if err != nil {
			return fmt.Errorf("failed to read job description file: %w", err)
		}
		jobDescription = string(data)
	}
	if jobDescription == "" {
		return fmt.Errorf("either --job-description or --job-file must be provided")
	}

	apiKey, err := requireAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		Kind:               generate.DocKind(cfg.Kind),
		Language:           generate.Language(cfg.Language),
		JobTitle:           genJobTitle,
		JobDescription:     jobDescription,
		CustomInstructions: cfg.Instructions,
		Verbose:            genVerbose,
		OnChunk: func(text string) {
			fmt.Print(text)
		},
	}

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

		profile, documents, profileID, err := loadStoredProfile(ctx, database, cfg.ProfileID)
		if err != nil {
			return err
		}
		opts.Profile = profile
		opts.Documents = documents
		opts.Database = database
		opts.ProfileID = profileID
	} else {
		documents, err := loadDocuments(cfg.Documents)
		if err != nil {
			return err
		}
		opts.Profile = types.Profile{
			Name:    cfg.Name,
			Summary: cfg.Summary,
			Email:   cfg.Email,
			Phone:   cfg.Phone,
		}
		opts.Documents = documents
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()
	opts.Client = client

	if genVerbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", event.State, event.Message)
		}
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Println()
	if result.LetterID != uuid.Nil {
		fmt.Fprintf(os.Stderr, "Letter stored: %s\n", result.LetterID)
	}
	return nil
}
