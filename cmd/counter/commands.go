package counter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ValentinKolb/aKV/lib/client"
	"github.com/ValentinKolb/aKV/lib/deferred"
	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/spf13/cobra"
)

var (
	incrCmd = &cobra.Command{
		Use:   "incr [table] [row] [family] [qualifier] [amount]",
		Short: "Atomically increments a counter and prints the new value",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[4])
			if err != nil {
				return err
			}
			durable, _ := cmd.Flags().GetBool("durable")

			req := client.IncrementRequest{Cell: parseCell(args), Amount: amount, Durable: durable}
			value, err := await(akvClient.AtomicIncrement(req))
			if err != nil {
				return err
			}
			fmt.Printf("cell=%s, value=%d\n", args[:4], value)
			return nil
		},
	}
	bincrCmd = &cobra.Command{
		Use:   "bincr [table] [row] [family] [qualifier] [amount]",
		Short: "Buffers increments of a counter and prints how they were coalesced",
		Long:  "Issues --times buffered increments of the same counter concurrently, flushes the buffer and prints the final value together with the number of physical increments.",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[4])
			if err != nil {
				return err
			}
			times, _ := cmd.Flags().GetInt("times")
			if times < 1 {
				return fmt.Errorf("times must be positive")
			}

			req := client.NewIncrementRequest(parseCell(args), amount)
			handles := make([]*deferred.Deferred[int64], times)
			for i := range handles {
				handles[i] = akvClient.BufferIncrement(req)
			}
			if _, err := await(akvClient.Flush()); err != nil {
				return err
			}

			values, err := await(deferred.Group(handles...))
			if err != nil {
				return err
			}
			// handles drained by different flushes see different values
			final := values[0]
			for _, v := range values[1:] {
				if (amount >= 0 && v > final) || (amount < 0 && v < final) {
					final = v
				}
			}
			stats := akvClient.Stats()
			fmt.Printf("cell=%s, value=%d, increments=%d, physical=%d\n",
				args[:4], final, times, stats.BufferDrains+stats.AtomicIncrements)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [table] [row] [family] [qualifier]",
		Short: "Reads the value of a counter",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := await(akvClient.GetCounter(parseCell(args)))
			if err != nil {
				return err
			}
			fmt.Printf("cell=%s, value=%d\n", args, value)
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [table] [row] [family] [qualifier] [value]",
		Short: "Sets a counter to a value",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(args[4])
			if err != nil {
				return err
			}
			req := client.PutRequest{Cell: parseCell(args), Value: store.EncodeCounter(value)}
			if _, err := await(akvClient.Put(req)); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [table] [row] [family] [qualifier]",
		Short: "Deletes a cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := await(akvClient.Delete(parseCell(args))); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
)

func init() {
	incrCmd.Flags().Bool("durable", true, "Whether the store should persist the increment before acknowledging it")
	bincrCmd.Flags().Int("times", 100, "How many buffered increments to issue")
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func parseCell(args []string) client.Cell {
	return client.NewCell(args[0], args[1], args[2], args[3])
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be a number: %w", err)
	}
	return amount, nil
}

// await blocks until d completes, the CLI is the edge of the asynchronous API
func await[T any](d *deferred.Deferred[T]) (T, error) {
	return d.Join(context.Background())
}
