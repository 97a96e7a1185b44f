package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/aKV/cmd/counter"
	"github.com/ValentinKolb/aKV/cmd/serve"
	"github.com/ValentinKolb/aKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "akv",
		Short: "asynchronous counter client for a sharded key-value store",
		Long: fmt.Sprintf(`aKV (v%s)

An asynchronous client for a sharded key-value store written in Go.
Increments of the same counter are coalesced in memory and sent as one
physical increment, the server replicates shards with RAFT.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of aKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(counter.CounterCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
