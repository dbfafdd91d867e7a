// Command seed bulk-indexes a directory of PDF files through the same
// ingestion pipeline the upload endpoint uses.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"workflow-builder/backend/internal/config"
	"workflow-builder/backend/internal/documents"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/repository"
)

func main() {
	var envFile string
	var path string

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Index a directory of PDF documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envFile, path)
		},
	}
	rootCmd.Flags().StringVar(&envFile, "env", "", "Path to .env file")
	rootCmd.Flags().StringVar(&path, "path", "./data", "Directory of PDF files to index")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile, path string) error {
	logger := logging.NewLogger()

	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	embedder := documents.NewOpenAIEmbedder(cfg.Providers.OpenAIAPIKey)
	docService := documents.NewService(store, store, embedder, logger)

	indexed := 0
	err = filepath.WalkDir(path, func(file string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(file), ".pdf") {
			return nil
		}

		content, err := os.ReadFile(file)
		if err != nil {
			logger.Error("Skipping %s: %v", file, err)
			return nil
		}

		docID, err := docService.ProcessDocument(ctx, content, filepath.Base(file))
		if err != nil {
			logger.Error("Skipping %s: %v", file, err)
			return nil
		}

		fmt.Printf("%s -> %s\n", file, docID)
		indexed++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", path, err)
	}

	logger.Info("Indexed %d documents from %s", indexed, path)
	return nil
}
