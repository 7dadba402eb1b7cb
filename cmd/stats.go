package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dhcgn/spool-pager/config"
	"github.com/dhcgn/spool-pager/header"
	"github.com/dhcgn/spool-pager/mbox"
	"github.com/dhcgn/spool-pager/stats"
)

// NewStatsCommand returns the "stats" subcommand, which loads mail the same
// way the pager does and prints counts instead of opening the terminal.
func NewStatsCommand() *cobra.Command {
	var topN int

	statsCmd := &cobra.Command{
		Use:   "stats [USER]",
		Short: "Show message counts, top recipients and top senders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd, args)
			if err != nil {
				return err
			}

			store, collector, err := LoadStore(cfg, slog.Default())
			if err != nil {
				return err
			}

			printStats(cmd.OutOrStdout(), store, collector, topN, cfg.DecodeHeaders)
			return nil
		},
	}

	statsCmd.Flags().IntVarP(&topN, "top", "t", 10, "Number of top items to display in statistics")
	return statsCmd
}

func printStats(w io.Writer, store *mbox.Store, collector *stats.Collector, topN int, decode bool) {
	summary := collector.Snapshot()
	fmt.Fprintf(w, "Loaded %d messages from %d mailboxes (filtered %d, skipped %d)\n\n",
		summary.Messages, summary.Sources, summary.Filtered, summary.Skipped)

	for _, source := range collector.Sources() {
		fmt.Fprintf(w, "  %s: %d\n", source, summary.PerSource[source])
	}
	for _, skipped := range store.Skipped() {
		fmt.Fprintf(w, "  %s: skipped (%v)\n", skipped.Name, skipped.Err)
	}
	fmt.Fprintln(w)

	recipients := make(map[string]int)
	senders := make(map[string]int)
	for _, msg := range store.Messages() {
		if to, ok := header.FindField(msg, header.PrefixTo); ok {
			if decode {
				to = header.Decode(to)
			}
			recipients[to]++
		}
		if sender := header.Sender(msg); sender != header.Unknown {
			senders[sender]++
		}
	}

	fmt.Fprintf(w, "Top %d recipients:\n", topN)
	stats.PrettyPrintTop(w, recipients, topN)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Top %d senders:\n", topN)
	stats.PrettyPrintTop(w, senders, topN)
}
