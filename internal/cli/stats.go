package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"influencerag/internal/adapter/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show information about the stored index",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	dir := cfg.StoreDir(GetRootDir())

	m, err := store.ReadManifest(dir)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("No store found. Run 'assistant ingest' first.")
			return nil
		}
		return fmt.Errorf("failed to read store manifest: %w", err)
	}

	fmt.Printf("Store:     %s\n", dir)
	fmt.Printf("Backend:   %s\n", m.Backend)
	fmt.Printf("Records:   %d\n", m.Count)
	fmt.Printf("Dimension: %d\n", m.Dimension)
	if m.Embedder != "" {
		fmt.Printf("Embedder:  %s\n", m.Embedder)
	}
	return nil
}
