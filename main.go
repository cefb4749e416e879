package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chemstack/pugrest/cmd/assay"
	compoundcmd "github.com/chemstack/pugrest/cmd/compound"
	"github.com/chemstack/pugrest/cmd/fingerprint"
	"github.com/chemstack/pugrest/cmd/sources"
	"github.com/chemstack/pugrest/cmd/substance"
	"github.com/chemstack/pugrest/internal/config"
	"github.com/chemstack/pugrest/pkg/middleware/logger"
	"github.com/chemstack/pugrest/pkg/utils"
)

func main() {
	rootCtx := utils.SetupSignalContext()
	root := &cobra.Command{
		SilenceUsage:      true,
		Short:             "pugrest",
		Long:              "pugrest - PubChem PUG REST command line client",
		PersistentPreRunE: initGlobalResource,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
		PersistentPostRunE: cleanGlobalResource,
	}
	root.SetContext(rootCtx)
	root.AddCommand(compoundcmd.New())
	root.AddCommand(substance.New())
	root.AddCommand(assay.New())
	root.AddCommand(sources.New())
	root.AddCommand(fingerprint.New())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initGlobalResource(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found - using environment variables")
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()

	conf := config.Global()
	if err := v.Unmarshal(conf); err != nil {
		log.Fatal(err)
	}

	logger.Init(&logger.LogConfig{
		Path:     conf.Log.LogPath,
		LogLevel: conf.Log.LogLevel,
		ServiceEnv: logger.ServiceEnv{
			Platform: conf.Server.Platform,
			Service:  conf.Server.Service,
			Env:      conf.Server.Env,
		},
	})

	return nil
}

func cleanGlobalResource(_ *cobra.Command, _ []string) error {
	logger.Close()
	return nil
}
