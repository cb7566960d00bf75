// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ensgraph/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ensgraph",
	Short: "Look up ENS profiles and map who is connected to whom",
	Long: fmt.Sprintf(`ensgraph is a command line tool to explore ENS names and the social graph
between them.

ensgraph supports you on different ends:

	1. It resolves an ENS name into a full profile: the address it points
	to, its owner and resolver, text records, BTC/LTC/ETH addresses,
	content hash and, for .eth names, the registration expiry.

	2. It reads "name1.eth, name2.eth" pairs, tells you which lines are
	malformed and builds a graph out of the valid ones.

	3. It keeps your own custom connections between names and can mirror
	them to a shared friendships table on Supabase or Postgres.

By default, ensgraph reads Ethereum mainnet through public nodes. You can use
your own node instead with the --endpoint flag or by setting the following
env var:
	%s

The remote friendships table is enabled by setting either:
	1. For Supabase: %s and %s
	2. For Postgres: %s

Everything else lives in %s, see "ensgraph write-config".`,
		config.ETHEREUM_MAINNET_NODE_VAR,
		config.SUPABASE_URL_VAR,
		config.SUPABASE_ANON_KEY_VAR,
		config.POSTGRES_DSN_VAR,
		config.DefaultConfigPath(),
	),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLogger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		appUI.Error("%s", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", config.DefaultConfigPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&config.Endpoint, "endpoint", "e", "", "Ethereum JSON-RPC node to query instead of the configured ones")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "", "log level: debug, info, warn or error")
}
