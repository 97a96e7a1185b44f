package counter

import (
	"context"
	"time"

	"github.com/ValentinKolb/aKV/cmd/util"
	"github.com/ValentinKolb/aKV/lib/client"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the final drain of buffered increments
const shutdownTimeout = 30 * time.Second

var (
	akvClient *client.Client

	// CounterCommands represents the counter command group
	CounterCommands = &cobra.Command{
		Use:                "counter",
		Short:              "Perform counter and cell operations",
		Long:               "Perform counter and cell operations. A cell is addressed by [table] [row] [family] [qualifier].",
		PersistentPreRunE:  setupClient,
		PersistentPostRunE: shutdownClient,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	util.SetupRPCClientFlags(CounterCommands)
	util.SetupCoalescingFlags(CounterCommands)
	CounterCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	CounterCommands.AddCommand(incrCmd)
	CounterCommands.AddCommand(bincrCmd)
	CounterCommands.AddCommand(getCmd)
	CounterCommands.AddCommand(setCmd)
	CounterCommands.AddCommand(delCmd)
	CounterCommands.AddCommand(perfTestCmd)
}

// setupClient connects the client to the configured shard
func setupClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	c, err := util.NewClient()
	if err != nil {
		return err
	}
	akvClient = c
	return nil
}

// shutdownClient drains buffered increments and closes the connection
func shutdownClient(_ *cobra.Command, _ []string) error {
	if akvClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return akvClient.Shutdown(ctx)
}
