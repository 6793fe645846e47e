package cmd

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nickelm/golemcraft-worldgen/internal/conthost"
	"github.com/nickelm/golemcraft-worldgen/internal/hashrng"
	"github.com/nickelm/golemcraft-worldgen/internal/server"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve continent metadata over HTTP, generating missing continents on demand",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("templates-dir", "./templates", "Directory of YAML templates, one per continentId (continentId.yaml)")
	serveCmd.Flags().Int("max-concurrent-generations", 2, "Max concurrent on-demand continent generations")
	serveCmd.Flags().Duration("generation-timeout", 2*time.Minute, "Timeout per continent generation")
	serveCmd.Flags().Int64("world-seed", 1337, "Root seed every continent's seed is derived from")

	bindFlags := []struct{ key, flag string }{
		{"serve.addr", "addr"},
		{"serve.templates_dir", "templates-dir"},
		{"serve.max_concurrent_generations", "max-concurrent-generations"},
		{"serve.generation_timeout", "generation-timeout"},
		{"serve.world_seed", "world-seed"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, serveCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := conthost.OpenSQLiteStore(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	templatesDir := viper.GetString("serve.templates_dir")
	worldSeed := uint32(viper.GetInt64("serve.world_seed"))

	resolve := func(worldID, continentID string) (*worldtemplate.Template, uint32, error) {
		t, err := worldtemplate.LoadFile(filepath.Join(templatesDir, continentID+".yaml"))
		if err != nil {
			return nil, 0, err
		}
		seed := hashrng.DeriveSeed(worldSeed, worldID+"/"+continentID)
		return t, seed, nil
	}

	srv := server.NewOnDemandContinents(store, resolve, server.OnDemandContinentsConfig{
		MaxConcurrentGenerations: viper.GetInt("serve.max_concurrent_generations"),
		GenerationTimeout:        viper.GetDuration("serve.generation_timeout"),
	}, logger)

	addr := viper.GetString("serve.addr")
	logger.Info("serving continent metadata", "addr", addr, "templates_dir", templatesDir)
	return http.ListenAndServe(addr, srv.Handler())
}
