//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "print the statistics of the co-authorship network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		eng, err := openengine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		ov, err := eng.Overview(ctx)
		if err != nil {
			return err
		}
		ns := eng.NetworkStatistics()

		m := message.NewPrinter(language.English)
		m.Printf("documents:\t%d\n", ov.TotalDocuments)
		m.Printf("authors:\t%d\n", ns.Nodes)
		m.Printf("links:\t\t%d\n", ns.Edges)
		m.Printf("communities:\t%d\n", ns.Communities)
		m.Printf("components:\t%d\n", ns.Components)
		m.Printf("avg. degree:\t%.3f\n", ns.AverageDegree)
		m.Printf("density:\t%.5f\n", ns.Density)
		m.Printf("modularity:\t%.4f\n", ns.Modularity)
		if len(ns.TopAuthors) > 0 {
			m.Printf("\nmost connected authors:\n")
			for i, ca := range ns.TopAuthors {
				m.Printf("%3d. %-32s degree %.4f\tbetweenness %.4f\n", i+1, ca.Name, ca.Degree, ca.Betweenness)
			}
		}
		return nil
	},
}
