// Package commands implements the go-ipc CLI's subcommands.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kesdev/go-ipc"
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "go-ipc",
	Short: "Run a go-ipc server or issue calls against one as a client",
}

// Execute runs the CLI, returning the first error any subcommand
// reports.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $HOME/.go-ipc.yaml)")
	rootCmd.AddCommand(serverCmd, clientCmd)
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".go-ipc")
		viper.AddConfigPath("$HOME")
	}
	viper.SetEnvPrefix("GO_IPC")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absence of a config file is not an error
}

func newLogger() *ipc.Logger {
	level := ipc.LevelInfo
	if verbose || viper.GetBool("verbose") {
		level = ipc.LevelDebug
	}
	return ipc.NewLogger(&ipc.LoggerConfig{Level: level})
}
