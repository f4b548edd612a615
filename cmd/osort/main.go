// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/daviszhen/osort/pkg/compute"
	"github.com/daviszhen/osort/pkg/obsort"
	"github.com/daviszhen/osort/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	RootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "debug, info, warn or error")
	initRunCmd()
	initExplainCmd()
	initInitCfgCmd()
}

var runCfg = &util.Config{}

///root cmd

var info = "osort"
var logLevel string
var RootCmd = &cobra.Command{
	Use:          "osort",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lvl, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			util.Warn("bad log level, keeping info",
				zap.String("logLevel", logLevel))
			return
		}
		util.SetLogLevel(lvl)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use osort --help or -h")
	},
}

func initDebugOptions() {
	runCfg.Debug.PrintResult = viper.GetBool("debug.printResult")
	runCfg.Debug.PrintSchedule = viper.GetBool("debug.printSchedule")
	runCfg.Debug.PrintTrace = viper.GetBool("debug.printTrace")
	runCfg.Debug.Verify = viper.GetBool("debug.verify")
}

//run cmd

var runInfo = "sort buffers"
var runCmd = &cobra.Command{
	Use:   "run",
	Short: runInfo,
	Long:  runInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		initRunCfg()
		return compute.Run(runCfg)
	},
}

func initRunCfg() {
	initDebugOptions()
	runCfg.Gen.Buffers = viper.GetInt("gen.buffers")
	runCfg.Gen.Rows = viper.GetInt("gen.rows")
	runCfg.Gen.Seed = viper.GetInt64("gen.seed")
	runCfg.Input.Format = viper.GetString("input.format")
	runCfg.Input.Path = viper.GetString("input.path")
	runCfg.Order = nil
	if err := viper.UnmarshalKey("order", &runCfg.Order); err != nil {
		util.Error("bad order columns in config",
			zap.Error(err))
	}
}

func initRunCmd() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runCfg.Gen.Buffers, "buffers", 4, "buffer count")
	runCmd.Flags().IntVar(&runCfg.Gen.Rows, "rows", 1024, "rows per buffer")
	runCmd.Flags().Int64Var(&runCfg.Gen.Seed, "seed", 1, "rng seed for generated data")
	runCmd.Flags().StringVar(&runCfg.Input.Format, "format", "gen", "input format. gen, csv, parquet")
	runCmd.Flags().StringVar(&runCfg.Input.Path, "path", "", "input data path")

	viper.BindPFlag("gen.buffers", runCmd.Flags().Lookup("buffers"))
	viper.BindPFlag("gen.rows", runCmd.Flags().Lookup("rows"))
	viper.BindPFlag("gen.seed", runCmd.Flags().Lookup("seed"))
	viper.BindPFlag("input.format", runCmd.Flags().Lookup("format"))
	viper.BindPFlag("input.path", runCmd.Flags().Lookup("path"))
}

//explain cmd

var explainBuffers int

var explainInfo = "print the merge network for a buffer count"
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: explainInfo,
	Long:  explainInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if explainBuffers < 1 {
			return fmt.Errorf("need at least 1 buffer")
		}
		fmt.Print(obsort.ExplainSchedule(explainBuffers))
		return nil
	},
}

func initExplainCmd() {
	RootCmd.AddCommand(explainCmd)
	explainCmd.Flags().IntVar(&explainBuffers, "buffers", 4, "buffer count")
}

//init-config cmd

var initCfgInfo = "write a default osort.toml in the current directory"
var initCfgCmd = &cobra.Command{
	Use:   "init-config",
	Short: initCfgInfo,
	Long:  initCfgInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(cfgFileName)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(defaultConfig())
	},
}

func initInitCfgCmd() {
	RootCmd.AddCommand(initCfgCmd)
}

func defaultConfig() *util.Config {
	return &util.Config{
		Gen: util.GenData{
			Buffers: 4,
			Rows:    1024,
			Seed:    1,
		},
		Input: util.InputData{
			Format: "gen",
		},
		Order: []util.OrderColumn{
			{Column: "id"},
		},
		Debug: util.DebugOptions{
			Verify: true,
		},
	}
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "osort.toml"

func loadConfig() {
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			viper.SetConfigFile(fpath)
			err := viper.ReadInConfig()
			if err != nil {
				util.Error("viper load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
				continue
			}
			return
		}
	}
	util.Warn("osort.toml not found, using flag defaults")
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
