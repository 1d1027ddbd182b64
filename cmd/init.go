package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/scaffolding"
)

var initCmd = &cobra.Command{
	Use:   "init [site-name]",
	Short: "Scaffold a new documentation site",
	Long: `Create a starter documentation site in the current directory:
a .docsmith.yml configuration with example homepage features, sample
Markdown pages, and placeholder icons so the first build succeeds.

Examples:
  docsmith init                   # Use the directory name as the site name
  docsmith init "My Project"      # Use an explicit site name`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initDir string

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to scaffold into")
}

func runInit(cmd *cobra.Command, args []string) error {
	siteName := ""
	if len(args) > 0 {
		siteName = args[0]
	}

	generator := scaffolding.NewGenerator(initDir)
	if err := generator.Generate(siteName); err != nil {
		return err
	}

	fmt.Println("Scaffolded a new documentation site.")
	fmt.Println("Next steps:")
	fmt.Println("  docsmith serve      # live-reloading preview")
	fmt.Println("  docsmith build      # production build")
	return nil
}
