package cmd

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fusebook/fusebook/nbfs"
)

// NewExportCmd creates and returns the export subcommand for the fusebook
// CLI. It writes one notebook's virtual tree into a zip archive, giving
// the same files a mount would expose without needing FUSE.
func NewExportCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "export NOTEBOOK DEST.zip",
		Short: "Write a notebook's virtual tree into a zip archive",
		Long: `Export the virtual file tree of a single notebook into a zip archive.

NOTEBOOK is the path to an .ipynb file.
DEST.zip is the archive to create; it is overwritten if present.

The archive contains exactly the files a mounted fusebook tree would show
for the notebook: cell sources and rendered output payloads.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runExport(args[0], args[1], verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runExport(notebookPath, dest string, verbose bool) {
	dir, name := filepath.Split(notebookPath)
	if dir == "" {
		dir = "."
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := nbfs.NewRepository(filepath.Clean(dir), logger)
	resolver := nbfs.NewResolver(repo, "", nil)

	nb, err := repo.Get(name)
	if err != nil {
		log.Fatalf("Failed to load notebook: %v", err)
	}

	os.Remove(dest)
	f, err := os.Create(dest)
	if err != nil {
		log.Fatalf("Failed to create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	var written int
	for _, child := range resolver.Children(nb, name) {
		data, err := resolver.Render(nb, child.Entity)
		if err != nil {
			log.Fatalf("Failed to render %s: %v", child.Name, err)
		}
		writer, err := w.Create(child.Name)
		if err != nil {
			log.Fatalf("Failed to add %s to archive: %v", child.Name, err)
		}
		if _, err := writer.Write(data); err != nil {
			log.Fatalf("Failed to write %s: %v", child.Name, err)
		}
		written++
		if verbose {
			fmt.Printf("Added %s (%d bytes)\n", child.Name, len(data))
		}
	}

	fmt.Printf("Exported %d files to %s\n", written, dest)
}
