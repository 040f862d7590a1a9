// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/ai"
	"github.com/pdiddy/research-assistant/internal/arxiv"
	"github.com/pdiddy/research-assistant/internal/enrich"
	"github.com/pdiddy/research-assistant/internal/format"
	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/internal/memstore"
	"github.com/pdiddy/research-assistant/internal/pipeline"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search arXiv with memory-enriched queries",
	Long: `Search looks up memory entries relevant to the query, appends them as
background context, and queries arXiv with the enriched query. Results are
rendered as markdown and the episode (query plus result titles) is recorded
to the user's memory for future enrichment.

A missing Claude API key or --no-ai selects the deterministic fallback
renderer; the output covers the same records either way.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	userID, _ := cmd.Flags().GetString("user")

	cfg := pipelineConfig(cmd)

	var enricher pipeline.Enricher
	var recorder pipeline.MemoryWriter

	store, err := openMemoryStore(cfg)
	if err != nil {
		// Memory is a degradable dependency: search still works, the
		// episode just will not be recorded.
		fmt.Fprintf(os.Stderr, "warning: memory store unavailable: %v\n", err)
	} else {
		defer store.Close()
		enricher = &enrich.Enricher{
			Mem:         store,
			Limit:       cfg.Memory.RelevantLimit,
			Passthrough: !cfg.Memory.Enrich,
		}
		recorder = store
	}

	searcher := &arxiv.Client{HTTP: httputil.NewClient(cfg.Search.HTTPConfig)}
	formatter := &format.Formatter{
		Gen:         generator(cfg),
		Temperature: cfg.Format.Temperature,
	}

	o := pipeline.NewOrchestrator(searcher, enricher, formatter, recorder,
		pipeline.Session{UserID: userID}, cfg.Search)

	result, err := o.Run(cmd.Context(), query)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Println(result.Markdown)
	return nil
}

// generator returns the text-generation backend, or nil when the AI path
// is disabled or unconfigured (selecting the fallback renderer).
func generator(cfg types.PipelineConfig) ai.Generator {
	if !cfg.Format.UseAI || cfg.Format.APIKey == "" {
		return nil
	}
	return &ai.ClaudeBackend{
		APIKey: cfg.Format.APIKey,
		Model:  cfg.Format.Model,
		Client: httputil.NewClient(cfg.Search.HTTPConfig),
	}
}

// openMemoryStore opens the memory store, wiring the AI inferencer when a
// generation backend is configured.
func openMemoryStore(cfg types.PipelineConfig) (*memstore.Store, error) {
	var inferencer memstore.Inferencer
	if gen := generator(cfg); gen != nil {
		inferencer = &ai.MemoryInferencer{Gen: gen}
	}
	return memstore.NewStore(cfg.Memory, inferencer)
}

// pipelineConfig assembles the stage configuration from the config file,
// environment, secrets, and command flags (flags win).
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxResults: viper.GetInt("search.max_results"),
		},
		Memory: types.MemoryConfig{
			Path:          viper.GetString("memory.path"),
			RelevantLimit: viper.GetInt("memory.relevant_limit"),
			Enrich:        viper.GetBool("memory.enrich"),
		},
		Format: types.FormatConfig{
			AIConfig: types.AIConfig{
				Model:       viper.GetString("format.model"),
				APIKey:      secretDefault("anthropic-api-key", viper.GetString("format.api_key")),
				Temperature: viper.GetFloat64("format.temperature"),
			},
			UseAI: viper.GetBool("format.use_ai"),
		},
	}

	if cmd.Flags().Changed("max-results") {
		cfg.Search.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	if noEnrich, _ := cmd.Flags().GetBool("no-enrich"); noEnrich {
		cfg.Memory.Enrich = false
	}
	if noAI, _ := cmd.Flags().GetBool("no-ai"); noAI {
		cfg.Format.UseAI = false
	}
	if path, _ := cmd.Flags().GetString("memory-path"); path != "" {
		cfg.Memory.Path = path
	}
	return cfg
}

func init() {
	searchCmd.Flags().Int("max-results", 10, "maximum number of results to return")
	searchCmd.Flags().Bool("no-enrich", false, "search with the raw query, without memory context")
	searchCmd.Flags().Bool("no-ai", false, "render results with the deterministic fallback formatter")
	searchCmd.Flags().String("memory-path", "", "memory database file (default from config)")

	rootCmd.AddCommand(searchCmd)
}
