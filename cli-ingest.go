//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "load a corpus file (csv, json, yaml) into the configured store",
	Long: `ingest reads a corpus file and adds its documents to the configured store.
Rows without a title, authors or a year are skipped and counted.
The memory store forgets everything on exit: use --store sqlite or postgres.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		eng, err := openengine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		rep, err := eng.IngestFile(ctx, args[0])
		if err != nil {
			return err
		}

		m := message.NewPrinter(language.English)
		m.Printf("%s: %d rows; %d accepted; %d skipped\n", args[0], rep.Rows, rep.Accepted, rep.Skipped)

		why := make([]string, 0, len(rep.Reasons))
		for k := range rep.Reasons {
			why = append(why, k)
		}
		sort.Strings(why)
		for _, k := range why {
			m.Printf("\t%s: %d\n", k, rep.Reasons[k])
		}

		n, err := eng.Store.Count(ctx)
		if err != nil {
			return err
		}
		m.Printf("the store now holds %d documents\n", n)
		return nil
	},
}
