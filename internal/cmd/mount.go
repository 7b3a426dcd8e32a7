package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/spf13/cobra"

	"github.com/fusebook/fusebook/nbfs"
	"github.com/fusebook/fusebook/version"
)

// NewMountCmd creates and returns the mount subcommand for the fusebook
// CLI. It mounts a notebook source directory at the specified mountpoint.
func NewMountCmd() *cobra.Command {
	var (
		configPath string
		write      bool
	)

	cmd := &cobra.Command{
		Use:   "mount SOURCE_DIR MOUNTPOINT",
		Short: "Mount a notebook directory as a browsable filesystem",
		Long: `Mount a notebook directory at the specified mountpoint.

SOURCE_DIR is the directory containing .ipynb files.
MOUNTPOINT is the directory where the filesystem will be mounted.

The process runs in the foreground until interrupted. The mounted tree is
always read-only; --write is accepted for forward compatibility only.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runMount(args[0], args[1], configPath, write)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Accepted but ignored; the filesystem is read-only")

	return cmd
}

func runMount(sourceDir, mountpoint, configPath string, write bool) {
	// Print version info on startup
	fmt.Printf("fusebook %s starting...\n", version.GetFullVersion())

	cfg := nbfs.NewDefaultConfig()
	if configPath != "" {
		loaded, err := nbfs.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.Source = sourceDir

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	if write || cfg.Writable {
		logger.Warn("write mode requested but not supported; mounting read-only")
	}

	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		log.Fatalf("Source directory is not usable: %s", sourceDir)
	}
	info, err = os.Stat(mountpoint)
	if err != nil || !info.IsDir() {
		log.Fatalf("Mountpoint is not usable: %s", mountpoint)
	}
	if pathsOverlap(sourceDir, mountpoint) {
		log.Fatalf("Source directory and mountpoint overlap: %s / %s", sourceDir, mountpoint)
	}

	filesystem := nbfs.NewFS(cfg, logger)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("fusebook"),
		fuse.Subtype("fusebook"),
		fuse.ReadOnly(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drop stale cache entries when notebooks change on disk.
	go func() {
		if err := filesystem.Repository().Watch(ctx); err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		cancel()
		fuse.Unmount(mountpoint)
		c.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("fusebook %s mounted at %s (source: %s)", version.GetVersion(), mountpoint, sourceDir)
	err = fs.Serve(c, filesystem)
	if err != nil {
		log.Fatal(err)
	}
}

// pathsOverlap reports whether one path contains the other (or they are
// the same path). Mounting inside the source directory would make the
// mount visible to its own repository scan.
func pathsOverlap(path1, path2 string) bool {
	p1 := filepath.Clean(path1)
	p2 := filepath.Clean(path2)
	if p1 == p2 {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(p1, p2+sep) || strings.HasPrefix(p2, p1+sep)
}
