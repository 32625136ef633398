/*
   Copyright @ 2021 bocloud <fushaosong@beyondcent.com>.

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

package run

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carina-io/nasconsole"
	"github.com/carina-io/nasconsole/pkg/configuration"
)

// GitCommitID set by main from the linker flags
var GitCommitID = "dev"

var config struct {
	file      string
	debug     bool
	noHistory bool
}

var rootCmd = &cobra.Command{
	Use:     nasconsole.AppName,
	Version: nasconsole.Version,
	Short:   "Storage appliance administration console",
	Long: `nas-console is an interactive menu for administering the storage appliance.

It lists disks, manages storage pools, network interfaces and services and
controls the system. Commands are read line by line from the terminal or
from standard input when it is not a terminal.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return subMain()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", nasconsole.AppName, nasconsole.Version, GitCommitID)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	v := configuration.GlobalConfig

	fs := rootCmd.Flags()
	fs.StringVar(&config.file, "config", "", "config file (default "+nasconsole.DefaultConfigPath+"config.json)")
	fs.BoolVar(&config.debug, "debug", false, "debug logging, also written to stderr")
	fs.BoolVar(&config.noHistory, "no-history", false, "do not keep a command history file")
	fs.String("interfaces-file", nasconsole.DefaultInterfacesFile, "interface configuration document")
	fs.String("network-service", nasconsole.DefaultNetworkService, "systemd unit restarted after a permanent network edit")

	_ = v.BindPFlag("interfacesFile", fs.Lookup("interfaces-file"))
	_ = v.BindPFlag("networkService", fs.Lookup("network-service"))

	rootCmd.AddCommand(versionCmd)
}
