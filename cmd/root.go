/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/notargets/gocadinp/assembler"
	"github.com/notargets/gocadinp/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocadinp",
	Short: "Compile structural models into solver input files",
	Long: `Compile structural models (points, lines and areas with their couplings) described in
YAML or HCL model files into the text input of the SOFiSTiK SOFIMSHC mesh generator.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gocadinp.yaml)")
	rootCmd.PersistentFlags().String("logMode", "quiet", "log output: dev, prod or quiet")
	rootCmd.PersistentFlags().Float64("tolerance", 0, "geometric tolerance used when the model file sets none")
	rootCmd.PersistentFlags().Float64("meshDensity", 0, "minimum mesh size used when the model file sets none")
	rootCmd.PersistentFlags().Uint32("startIndex", 0, "synthetic ids start above this value when the model file sets none")
	rootCmd.PersistentFlags().String("module", assembler.DefaultModule, "solver module the input is addressed to")
	for key, flag := range map[string]string{
		"log_mode":     "logMode",
		"tolerance":    "tolerance",
		"mesh_density": "meshDensity",
		"start_index":  "startIndex",
		"module":       "module",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".gocadinp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gocadinp")
	}

	viper.SetEnvPrefix("GOCADINP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// applyDefaults fills the options a model file left at zero from flags, environment and config file
func applyDefaults(opts assembler.Options) assembler.Options {
	if opts.Tolerance == 0 {
		opts.Tolerance = viper.GetFloat64("tolerance")
	}
	if opts.MeshDensity == 0 {
		opts.MeshDensity = viper.GetFloat64("mesh_density")
	}
	if opts.StartIndex == 0 {
		opts.StartIndex = viper.GetUint32("start_index")
	}
	if opts.Module == "" {
		opts.Module = viper.GetString("module")
	}
	return opts
}

func newLogger() (*logger.Logger, error) {
	return logger.New(viper.GetString("log_mode"))
}
