package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"influencerag/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Influencer Q&A assistant - ingest profiles and answer questions with citations",
	Long: `assistant ingests influencer profiles into a local vector store and
answers natural-language questions about them, grounding every answer in
the ingested data and citing the influencers it drew from.

Example usage:
  assistant ingest profiles.json        # Ingest a dataset
  assistant query -q "AI influencers"   # Ask a question
  assistant stats                       # Inspect the stored index`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./assistant.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
