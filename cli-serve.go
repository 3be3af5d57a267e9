//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/lnch"
	"github.com/e-gun/PaperScopeServer/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "ingest the data file (if any), fit every group, and serve the JSON API",
	Long: `serve loads DataFile into the store when one is configured, brings the stored documents up to date,
starts fitting a topic model for every group, and serves the API while the fits run.
SIGINT and SIGTERM stop the server gracefully.`,
	Args: cobra.NoArgs,
	RunE: runserve,
}

func init() {
	serveCmd.Flags().String("host", "", "address to serve from")
	serveCmd.Flags().Int("port", 0, "port to serve on")
	serveCmd.Flags().String("data", "", "corpus file (csv, json, yaml) to ingest at startup")
	serveCmd.Flags().Bool("gz", false, "gzip the responses")
	_ = vpr.BindPFlag("HostIP", serveCmd.Flags().Lookup("host"))
	_ = vpr.BindPFlag("HostPort", serveCmd.Flags().Lookup("port"))
	_ = vpr.BindPFlag("DataFile", serveCmd.Flags().Lookup("data"))
	_ = vpr.BindPFlag("Gzip", serveCmd.Flags().Lookup("gz"))
}

func runserve(cmd *cobra.Command, args []string) error {
	const (
		MSG1 = "initialization took %.3fs"
		MSG2 = "every group fitted in %.3fs"
		MSG3 = "fitting stopped: %s"
		MSG4 = "bye"
	)

	start := time.Now()
	cfg := lnch.Config

	lnch.PrintCopyright(*cfg)
	lnch.PrintVersion(*cfg)
	lnch.PrintBuildInfo(*cfg)

	defer startprofiling()()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := openengine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	if cfg.DataFile != "" {
		if _, err = eng.IngestFile(ctx, cfg.DataFile); err != nil {
			return err
		}
	}

	go eng.Run(ctx)

	go func() {
		fs := time.Now()
		if ferr := eng.FitAll(ctx); ferr != nil {
			if errs.IsKind(ferr, errs.Cancelled) {
				return
			}
			msg.WARN(fmt.Sprintf(MSG3, ferr.Error()))
			return
		}
		msg.NOTE(fmt.Sprintf(MSG2, time.Since(fs).Seconds()))
	}()

	msg.FYI(fmt.Sprintf(MSG1, time.Since(start).Seconds()))

	err = web.StartEchoServer(ctx, eng)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	msg.NOTE(MSG4)
	return nil
}
