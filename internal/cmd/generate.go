package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nickelm/golemcraft-worldgen/internal/conthost"
	"github.com/nickelm/golemcraft-worldgen/internal/pipeline"
	"github.com/nickelm/golemcraft-worldgen/internal/worlddata"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a continent from a seed and a template file",
	Long:  `Runs every stage (shape, mountains, rivers, zones, roads, sdf) and persists the result.`,
	RunE:  runGenerate,
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Regenerate only the stale stages of a previously generated continent",
	RunE:  runRegenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(regenerateCmd)

	for _, c := range []*cobra.Command{generateCmd, regenerateCmd} {
		c.Flags().String("template", "", "Path to a YAML continent template (required)")
		c.Flags().Int64("seed", 1337, "Deterministic 32-bit seed")
		c.Flags().String("world-id", "default", "World identifier the continent belongs to")
		c.Flags().String("continent-id", "", "Continent identifier (required)")
		c.Flags().Bool("progress", true, "Print stage progress to stderr")

		if err := c.MarkFlagRequired("template"); err != nil {
			panic(err)
		}
		if err := c.MarkFlagRequired("continent-id"); err != nil {
			panic(err)
		}

		bindFlags := []struct{ key, flag string }{
			{"generate.template", "template"},
			{"generate.seed", "seed"},
			{"generate.world_id", "world-id"},
			{"generate.continent_id", "continent-id"},
			{"generate.progress", "progress"},
		}
		for _, bf := range bindFlags {
			if err := viper.BindPFlag(bf.key, c.Flags().Lookup(bf.flag)); err != nil {
				panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
			}
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	return withCancellableStore(func(ctx context.Context, store *conthost.SQLiteStore) error {
		seed, t, worldID, continentID, err := loadGenerateInputs()
		if err != nil {
			return err
		}

		wd, err := pipeline.GenerateAll(ctx, seed, t, progressLogger(), nil)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		return persist(store, wd, worldID, continentID)
	})
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	return withCancellableStore(func(ctx context.Context, store *conthost.SQLiteStore) error {
		seed, t, worldID, continentID, err := loadGenerateInputs()
		if err != nil {
			return err
		}

		rec, ok, err := store.GetContinentMetadata(worldID, continentID)
		if err != nil {
			return fmt.Errorf("loading previous metadata: %w", err)
		}
		if !ok {
			logger.Info("no previous continent found, running a full generation", "world_id", worldID, "continent_id", continentID)
			wd, err := pipeline.GenerateAll(ctx, seed, t, progressLogger(), nil)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			return persist(store, wd, worldID, continentID)
		}

		previous := worlddata.FromRecord(rec)
		wd, err := pipeline.RegenerateStale(ctx, seed, t, previous, progressLogger(), nil)
		if err != nil {
			return fmt.Errorf("regeneration failed: %w", err)
		}

		return persist(store, wd, worldID, continentID)
	})
}

func loadGenerateInputs() (uint32, *worldtemplate.Template, string, string, error) {
	templatePath := viper.GetString("generate.template")
	seedArg := viper.GetInt64("generate.seed")
	worldID := viper.GetString("generate.world_id")
	continentID := viper.GetString("generate.continent_id")

	if err := worldtemplate.ValidateSeed(seedArg); err != nil {
		return 0, nil, "", "", err
	}

	t, err := worldtemplate.LoadFile(templatePath)
	if err != nil {
		return 0, nil, "", "", err
	}

	return uint32(seedArg), t, worldID, continentID, nil
}

func progressLogger() conthost.ProgressFunc {
	if !viper.GetBool("generate.progress") {
		return nil
	}
	return func(r conthost.ProgressRecord) {
		logger.Info("stage complete",
			"stage", r.StageID,
			"stage_index", r.StageIndex,
			"stage_count", r.StageCount,
			"progress", fmt.Sprintf("%.0f%%", r.Progress*100),
			"message", r.Message,
		)
	}
}

func persist(store *conthost.SQLiteStore, wd *worlddata.WorldData, worldID, continentID string) error {
	rec := worlddata.ToRecord(wd, worldID, continentID)
	if err := store.SaveContinentMetadata(rec); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}
	for textureType, tex := range wd.Textures {
		texRec := worlddata.EncodeTexture(tex, worldID, continentID, worlddata.TextureType(textureType))
		if err := store.SaveTexture(texRec); err != nil {
			return fmt.Errorf("saving texture %q: %w", textureType, err)
		}
	}
	logger.Info("continent persisted", "world_id", worldID, "continent_id", continentID, "db", viper.GetString("db"))
	return nil
}

// withCancellableStore opens the SQLite store configured by --db, wires a
// context cancelled on SIGINT/SIGTERM, runs fn, and closes the store.
func withCancellableStore(fn func(ctx context.Context, store *conthost.SQLiteStore) error) error {
	if logger == nil {
		initLogging()
	}

	store, err := conthost.OpenSQLiteStore(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received interrupt signal, cancelling generation")
			cancel()
		case <-ctx.Done():
		}
	}()

	return fn(ctx, store)
}
