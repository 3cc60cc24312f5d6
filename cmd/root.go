package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.2"
)

var rootCmd = &cobra.Command{
	Use:   "databaser",
	Short: "Seed and query a warehouse database with deterministic fake data",
	Long: `Databaser fills an empty warehouse schema (customers, products,
orders and order lines) with deterministic synthetic data and runs a
handful of reporting queries against it.

Generation uses a fixed random seed, so every fresh database ends up
with exactly the same rows. That makes seeded databases comparable
across machines and runs.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./databaser.config.json)")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("databaser.config")
	}

	viper.AutomaticEnv()

	viper.ReadInConfig()
}
