// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/pkg/types"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage per-user memory (add, list, search, export)",
	Long: `Memory manages the per-user memory store backing query enrichment.
Entries accumulate automatically from searches; use subcommands to add
notes directly, inspect what is stored, or export a user's memory.`,
}

// --- add subcommand ---

var memoryAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Record a memory entry for a user",
	Long: `Add records a memory entry for the given user. By default the content
is distilled into a concise fact by the AI backend before storage; use
--verbatim (or run without an API key) to store the text as written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMemoryAdd,
}

func runMemoryAdd(cmd *cobra.Command, args []string) error {
	userID, err := requireUser(cmd)
	if err != nil {
		return err
	}
	verbatim, _ := cmd.Flags().GetBool("verbatim")

	store, err := openMemoryStore(pipelineConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	content := strings.Join(args, " ")
	if err := store.Add(cmd.Context(), content, userID, !verbatim); err != nil {
		return err
	}
	fmt.Println("Recorded.")
	return nil
}

// --- list subcommand ---

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's memory entries, newest first",
	RunE:  runMemoryList,
}

func runMemoryList(cmd *cobra.Command, args []string) error {
	userID, err := requireUser(cmd)
	if err != nil {
		return err
	}

	store, err := openMemoryStore(pipelineConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.GetAll(cmd.Context(), userID)
	if err != nil {
		return err
	}
	printEntries(result.Entries)
	return nil
}

// --- search subcommand ---

var memorySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search a user's memory by relevance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMemorySearch,
}

func runMemorySearch(cmd *cobra.Command, args []string) error {
	userID, err := requireUser(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openMemoryStore(pipelineConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Search(cmd.Context(), strings.Join(args, " "), userID, limit)
	if err != nil {
		return err
	}
	printEntries(result.Entries)
	return nil
}

// --- export subcommand ---

var memoryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's memory as YAML",
	RunE:  runMemoryExport,
}

func runMemoryExport(cmd *cobra.Command, args []string) error {
	userID, err := requireUser(cmd)
	if err != nil {
		return err
	}

	store, err := openMemoryStore(pipelineConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return store.Export(cmd.Context(), userID, out)
}

// --- shared helpers ---

func requireUser(cmd *cobra.Command) (string, error) {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		return "", fmt.Errorf("user ID required: pass --user")
	}
	return userID, nil
}

func printEntries(entries []types.MemoryEntry) {
	if len(entries) == 0 {
		fmt.Println("No memory entries.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Content)
	}
	fmt.Printf("\n%d entries\n", len(entries))
}

func init() {
	memoryAddCmd.Flags().Bool("verbatim", false, "store the content as written, without AI distillation")
	memorySearchCmd.Flags().Int("limit", 0, "maximum entries to return (0 = use default)")
	memoryExportCmd.Flags().String("out", "", "write the export to a file instead of stdout")

	// Each subcommand opens the store via pipelineConfig, so the search
	// pipeline flags it reads need to exist here too.
	for _, c := range []*cobra.Command{memoryAddCmd, memoryListCmd, memorySearchCmd, memoryExportCmd} {
		c.Flags().String("memory-path", "", "memory database file (default from config)")
	}

	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memorySearchCmd)
	memoryCmd.AddCommand(memoryExportCmd)

	rootCmd.AddCommand(memoryCmd)
}
