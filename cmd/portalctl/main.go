// Copyright 2025 Xpect Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"
	"github.com/xpect-group/portal/pkg/version"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "portalctl is the operator tool for the Xpect onboarding portal",
	Long:  "portalctl runs maintenance jobs against the portal database and checks a running portal",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path")
	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(StepsCmd())
	rootCmd.AddCommand(SweepCmd())
	rootCmd.AddCommand(HealthCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
