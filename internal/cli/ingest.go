package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"influencerag/internal/adapter/chunker"
	"influencerag/internal/adapter/dataset"
	"influencerag/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Ingest influencer profiles into the vector store",
	Long: `Ingest influencer profiles from a JSON or CSV file, or from every
matching file under a directory. Profiles are chunked, embedded, and
persisted to the configured store.

Examples:
  assistant ingest profiles.json      # Ingest a single file
  assistant ingest ./datasets         # Ingest every dataset in a directory`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	cfg := GetConfig()

	loader := dataset.NewLoader(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	profiles, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles found.")
		return nil
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	st, storeDir, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ingestUC := usecase.NewIngestUseCase(
		st,
		embedder,
		chunker.NewPostChunker(cfg.Ingest.MaxChunkLen),
		cfg.Ingest.BatchSize,
		storeDir,
	)

	fmt.Printf("Ingesting %d profiles...\n", len(profiles))

	var bar *progressbar.ProgressBar
	progressCallback := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := ingestUC.Ingest(profiles, progressCallback)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Profiles ingested: %d\n", result.ProfilesIngested)
	fmt.Printf("  Records stored:    %d\n", result.RecordsStored)
	fmt.Printf("  Embedding tier:    %s\n", result.EmbedderTier)
	fmt.Printf("\nStore saved at: %s\n", storeDir)
	return nil
}
