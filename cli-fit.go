//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit [group]",
	Short: "fit the topic model of one group, or of every group, and print the topics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		defer startprofiling()()

		eng, err := openengine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close()

		if len(args) == 1 {
			tm, ferr := eng.FitGroup(ctx, args[0])
			if ferr != nil {
				return ferr
			}
			printmodel(tm)
			return nil
		}

		// per-group failures are reported but do not hide the groups that did fit
		ferr := eng.FitAll(ctx)
		for _, tm := range eng.Models.All() {
			printmodel(tm)
		}
		return ferr
	},
}

func printmodel(tm *str.TopicModel) {
	const (
		HEAD = "[C2%sC0] %d documents; %d topics; %d words; seed %d; generation %d"
		LINE = "\t%s  S1(%.3f)S0"
	)
	fmt.Println(msg.ColStyle(fmt.Sprintf(HEAD, tm.GroupKey, len(tm.DocIDs), tm.NumTopics(), len(tm.Vocabulary), tm.Seed, tm.Generation)))
	for _, tp := range tm.Topics {
		lbl := tp.Label(vv.TOPICLABELWORDS)
		fmt.Println(msg.ColStyle(fmt.Sprintf(LINE, strings.TrimSpace(lbl), tp.Coherence)))
	}
}
