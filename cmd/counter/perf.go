package counter

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/ValentinKolb/aKV/cmd/util"
	"github.com/ValentinKolb/aKV/lib/client"
	"github.com/ValentinKolb/aKV/lib/deferred"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Compares atomic and buffered increments against an aKV server",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfTable      = "__perf"
	perfNumThreads = 10
	perfOps        = 1000
	perfKeySpread  = 10
	perfVerbose    = false
)

func init() {
	key := "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines issuing increments"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Increments per goroutine and mode"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("How many different counters to use for the tests"))
	key = "verbose"
	perfTestCmd.Flags().Bool(key, false, util.WrapString("Print all collected latency metrics"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	perfNumThreads = max(1, viper.GetInt("threads"))
	perfOps = max(1, viper.GetInt("ops"))
	perfKeySpread = max(1, viper.GetInt("keys"))
	perfVerbose = viper.GetBool("verbose")
	return nil
}

// perfMode issues one increment and returns its handle
type perfMode struct {
	name  string
	issue func(req client.IncrementRequest) *deferred.Deferred[int64]
	// wait makes every goroutine wait for its increment before issuing the next one
	wait bool
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for aKV counters")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Ops per thread: %d, Counters: %d\n", perfNumThreads, perfOps, perfKeySpread)
	fmt.Printf("Flush interval: %s, Buffer size: %d\n", akvClient.FlushInterval(), akvClient.IncrementBufferSize())
	fmt.Println()

	registry := metrics.NewRegistry()
	modes := []perfMode{
		{name: "atomic", issue: akvClient.AtomicIncrement, wait: true},
		{name: "buffered", issue: akvClient.BufferIncrement},
	}

	for _, mode := range modes {
		if err := runMode(mode, registry); err != nil {
			return err
		}
	}

	if perfVerbose {
		fmt.Println()
		metrics.WriteOnce(registry, os.Stdout)
	}
	return nil
}

// runMode runs one benchmark mode, checks the resulting counters and deletes them
func runMode(mode perfMode, registry metrics.Registry) error {
	timer := metrics.GetOrRegisterTimer(mode.name+".latency", registry)
	failures := metrics.GetOrRegisterCounter(mode.name+".failures", registry)
	cells := make([]client.Cell, perfKeySpread)
	for i := range cells {
		cells[i] = client.NewCell(perfTable, "row-"+strconv.Itoa(i), "perf", mode.name)
	}

	before := akvClient.Stats()
	start := time.Now()

	var wg sync.WaitGroup
	var handlesMu sync.Mutex
	var handles []*deferred.Deferred[int64]
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			for i := 0; i < perfOps; i++ {
				issued := time.Now()
				d := mode.issue(client.NewIncrementRequest(cells[(t+i)%perfKeySpread], 1))
				d.AddCallback(func(_ int64, err error) {
					if err != nil {
						failures.Inc(1)
						return
					}
					timer.UpdateSince(issued)
				})
				if mode.wait {
					await(d)
					continue
				}
				handlesMu.Lock()
				handles = append(handles, d)
				handlesMu.Unlock()
			}
		}(t)
	}
	wg.Wait()
	issuedIn := time.Since(start)

	if _, err := await(akvClient.Flush()); err != nil {
		return fmt.Errorf("%s: flush failed: %w", mode.name, err)
	}
	await(deferred.Group(handles...))
	elapsed := time.Since(start)

	// every counter must hold exactly its share of increments
	var total int64
	for _, cell := range cells {
		v, err := await(akvClient.GetCounter(cell))
		if err != nil {
			return fmt.Errorf("%s: failed to read counter: %w", mode.name, err)
		}
		total += v
		if _, err := await(akvClient.Delete(cell)); err != nil {
			return fmt.Errorf("%s: failed to delete counter: %w", mode.name, err)
		}
	}

	after := akvClient.Stats()
	physical := (after.AtomicIncrements - before.AtomicIncrements) + (after.BufferDrains - before.BufferDrains)
	ops := int64(perfNumThreads * perfOps)
	snapshot := timer.Snapshot()
	p := snapshot.Percentiles([]float64{0.5, 0.99})

	fmt.Printf("%-10s %8.0f ops/sec  issued in %-12s done in %-12s physical=%-8d p50=%-12s p99=%-12s failures=%d\n",
		mode.name,
		float64(ops)/elapsed.Seconds(),
		issuedIn.Round(time.Microsecond),
		elapsed.Round(time.Microsecond),
		physical,
		time.Duration(p[0]).Round(time.Microsecond),
		time.Duration(p[1]).Round(time.Microsecond),
		failures.Count(),
	)
	if total != ops-failures.Count() {
		return fmt.Errorf("%s: counters sum up to %d, expected %d", mode.name, total, ops-failures.Count())
	}
	return nil
}
