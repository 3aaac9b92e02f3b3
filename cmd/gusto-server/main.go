// Copyright 2025 gusto Project Authors
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
	_ "net/http/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gusto-io/gusto/base/log"
	"github.com/gusto-io/gusto/cmd/version"
	"github.com/gusto-io/gusto/config"
	"github.com/gusto-io/gusto/server"
	"github.com/gusto-io/gusto/storage/data"
)

var serverCommand = &cobra.Command{
	Use:   "gusto-server",
	Short: "The recommendation server of gusto.",
	Run: func(cmd *cobra.Command, args []string) {
		// show version
		showVersion, _ := cmd.PersistentFlags().GetBool("version")
		if showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		// setup logger
		debugMode, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debugMode)
		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		// command line overrides
		if cmd.PersistentFlags().Changed("http-host") {
			cfg.Server.HttpHost, _ = cmd.PersistentFlags().GetString("http-host")
		}
		if cmd.PersistentFlags().Changed("http-port") {
			cfg.Server.HttpPort, _ = cmd.PersistentFlags().GetInt("http-port")
		}
		// connect to data store
		log.Logger().Info("connect to database",
			zap.String("database", log.RedactDBURL(cfg.Database.Address)))
		database, err := data.Open(cfg.Database.Address)
		if err != nil {
			log.Logger().Fatal("failed to connect database", zap.Error(err),
				zap.String("database", log.RedactDBURL(cfg.Database.Address)))
		}
		if err = database.Init(); err != nil {
			log.Logger().Fatal("failed to init database", zap.Error(err))
		}
		defer database.Close()
		// start server
		s := server.NewRestServer(cfg, database)
		s.StartHttpServer()
	},
}

func init() {
	serverCommand.PersistentFlags().BoolP("version", "v", false, "gusto version")
	serverCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	serverCommand.PersistentFlags().Int("http-port", 8088, "port of RESTful API")
	serverCommand.PersistentFlags().String("http-host", "127.0.0.1", "host of RESTful API")
	serverCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(serverCommand.PersistentFlags())
}

func main() {
	if err := serverCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
