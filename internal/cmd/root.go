package cmd

import (
	"github.com/fusebook/fusebook/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the fusebook
// CLI. It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fusebook",
		Short: "fusebook - a FUSE filesystem for exploring Jupyter notebooks",
		Long: `fusebook presents Jupyter notebooks as browsable directory trees.

Each .ipynb file in the source directory appears as a directory whose files
are the notebook's cells and output payloads: cell sources as .py/.md/.txt
files, stream output as text files, rich display output as one file per
MIME representation. The view is read-only.

Use subcommands to perform different operations:
  - mount: Mount a notebook directory at a specified mountpoint
  - inspect: Parse notebooks and report their virtual trees
  - seed: Generate sample notebooks for testing
  - export: Write a notebook's virtual tree into a zip archive`,
		Version: version.GetFullVersion(),
	}

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	inspectCmd := NewInspectCmd()
	seedCmd := NewSeedCmd()
	exportCmd := NewExportCmd()

	mountCmd.GroupID = groupFilesystem
	inspectCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	exportCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)

	return rootCmd
}
