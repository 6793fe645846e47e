package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nickelm/golemcraft-worldgen/internal/conthost"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a stored continent's metadata record as JSON",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("world-id", "default", "World identifier")
	inspectCmd.Flags().String("continent-id", "", "Continent identifier (required)")
	if err := inspectCmd.MarkFlagRequired("continent-id"); err != nil {
		panic(err)
	}

	bindFlags := []struct{ key, flag string }{
		{"inspect.world_id", "world-id"},
		{"inspect.continent_id", "continent-id"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, inspectCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	store, err := conthost.OpenSQLiteStore(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	worldID := viper.GetString("inspect.world_id")
	continentID := viper.GetString("inspect.continent_id")

	rec, ok, err := store.GetContinentMetadata(worldID, continentID)
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}
	if !ok {
		return fmt.Errorf("no continent stored for world %q continent %q", worldID, continentID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
