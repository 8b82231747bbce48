package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bodycomp-ingest",
	Short: "Load body-composition export files into the measurement store",
	Long: `bodycomp-ingest parses a body-composition export file (first line is
the export banner, second line the header) and bulk upserts the measurements
into mongo, keyed by measurement time and device id. Re-running the same file
is idempotent.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("mongo-uri", "", "mongo connection string (env BODYCOMP_MONGO_URI)")
	rootCmd.PersistentFlags().String("database", "", "mongo database name (env BODYCOMP_DATABASE_NAME)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")

	viper.SetEnvPrefix("bodycomp")
	viper.AutomaticEnv()
	_ = viper.BindEnv("mongo-uri", "BODYCOMP_MONGO_URI")
	_ = viper.BindEnv("database", "BODYCOMP_DATABASE_NAME")
	_ = viper.BindPFlag("mongo-uri", rootCmd.PersistentFlags().Lookup("mongo-uri"))
	_ = viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}
