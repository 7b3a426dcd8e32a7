package cmd

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// tinyPNG is a valid 1x1 transparent PNG, base64-encoded the way nbformat
// stores image payloads.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// NewSeedCmd creates and returns the seed subcommand for the fusebook CLI.
// It generates sample notebooks for exercising the filesystem by hand.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		count      int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample notebooks for testing",
		Long: `Generate sample notebooks for testing fusebook functionality.

Each notebook contains a markdown cell and a randomized number of code
cells with stream and display outputs. Code cells print UUIDs drawn from
a small pool, so identical content across notebooks is easy to spot in
inspect output.`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(outputPath, count, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&count, "count", "c", 10, "Number of notebooks to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, count int, verbose bool) {
	if verbose {
		fmt.Printf("Generating %d sample notebooks in %s\n", count, outputPath)
	}

	// Create output directory
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate pool of 10 UUIDs
	uuidPool := make([]string, 10)
	for i := range uuidPool {
		uuidPool[i] = uuid.New().String()
	}

	for i := 0; i < count; i++ {
		name := fmt.Sprintf("sample%03d.ipynb", i)
		data, err := sampleNotebook(i, uuidPool)
		if err != nil {
			log.Fatalf("Failed to build notebook %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(outputPath, name), data, 0644); err != nil {
			log.Fatalf("Failed to write notebook %s: %v", name, err)
		}
		if verbose {
			fmt.Printf("Created %s\n", name)
		}
	}

	if verbose {
		fmt.Printf("Successfully created %d notebooks\n", count)
	}
}

// sampleNotebook builds one nbformat 4 document with a markdown header
// cell and 1-4 code cells carrying stream and display outputs.
func sampleNotebook(index int, uuidPool []string) ([]byte, error) {
	cells := []map[string]any{
		{
			"cell_type": "markdown",
			"metadata":  map[string]any{},
			"source":    []string{fmt.Sprintf("# Sample notebook %d\n", index), "\n", "Generated by fusebook seed."},
		},
	}

	codeCells, _ := rand.Int(rand.Reader, big.NewInt(4))
	for c := int64(0); c <= codeCells.Int64(); c++ {
		uuidIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(uuidPool))))
		value := uuidPool[uuidIndex.Int64()]

		outputs := []map[string]any{
			{
				"output_type": "stream",
				"name":        "stdout",
				"text":        []string{value + "\n"},
			},
		}

		withImage, _ := rand.Int(rand.Reader, big.NewInt(2))
		if withImage.Int64() == 1 {
			outputs = append(outputs, map[string]any{
				"output_type": "display_data",
				"metadata":    map[string]any{},
				"data": map[string]any{
					"text/plain": []string{"<Figure>"},
					"image/png":  tinyPNG,
				},
			})
		}

		cells = append(cells, map[string]any{
			"cell_type":       "code",
			"execution_count": c + 1,
			"metadata":        map[string]any{},
			"source":          []string{fmt.Sprintf("print(%q)", value)},
			"outputs":         outputs,
		})
	}

	doc := map[string]any{
		"nbformat":       4,
		"nbformat_minor": 5,
		"metadata": map[string]any{
			"language_info": map[string]any{"name": "python", "file_extension": ".py"},
		},
		"cells": cells,
	}
	return json.MarshalIndent(doc, "", " ")
}
