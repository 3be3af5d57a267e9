//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/e-gun/PaperScopeServer/internal/corpus"
	"github.com/e-gun/PaperScopeServer/internal/db"
	"github.com/e-gun/PaperScopeServer/internal/lnch"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// these next variables should be injected at build time: 'go build -ldflags "-X main.GitCommit=$GIT_COMMIT"', etc

var GitCommit string
var VersSuppl string
var BuildDate string

var (
	msg = lnch.Msg
	vpr = lnch.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "PaperScopeServer",
	Short: "topic models and a co-authorship network for a corpus of papers",
	Long: `PaperScopeServer ingests a corpus of papers, fits a topic model per year group,
builds the co-authorship network of the corpus, and serves the results as JSON.

With no subcommand it behaves like "serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cf, _ := cmd.Flags().GetString("config")
		if _, err := lnch.ConfigAtLaunch(vpr, cf); err != nil {
			return err
		}
		lnch.GitCommit = GitCommit
		lnch.VersSuppl = VersSuppl
		lnch.BuildDate = BuildDate
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	// flag name --> configuration key
	type binding struct {
		key  string
		flag string
	}

	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", fmt.Sprintf("config file (default: ./%s.yaml or ~/.config/%s.yaml)", vv.CONFIGBASIC, vv.CONFIGBASIC))
	pf.Bool("bw", vv.BLACKANDWHITE, "no colour in terminal output")
	pf.Int("el", vv.DEFAULTECHOLOGLEVEL, "echo log level: 0 (none) to 3 (full)")
	pf.Int("gl", vv.DEFAULTGOLOGLEVEL, "server log level: -1 (mandatory only) to 5 (everything)")
	pf.String("logfile", "", "also write structured JSON logs to this file")
	pf.Int("wc", 0, "number of workers (default: NumCPU)")
	pf.String("store", vv.DEFAULTSTORE, "document store: memory, sqlite, sqlite-cgo, postgres")
	pf.String("db", vv.DEFAULTDBPATH, "sqlite database file")
	pf.String("grouping", vv.DEFAULTGROUPBY, "how documents are grouped: year, bucket:N, all")
	pf.Int("topics", vv.LDATOPICS, "topics per group")
	pf.Int("iter", vv.LDAITER, "LDA sampling iterations")
	pf.Int64("seed", vv.LDASEED, "LDA random seed")
	pf.Bool("pos", false, "keep only nouns and adjectives when tokenizing")
	pf.String("stopwords", "", "extra stopwords file (one word per line)")
	pf.Bool("profcpu", false, "write a CPU profile to the working directory")
	pf.Bool("profmem", false, "write a memory profile to the working directory")
	pf.Bool("q", false, "quiet start: skip the copyright notice")

	bb := []binding{
		{"BlackAndWhite", "bw"},
		{"EchoLog", "el"},
		{"LogLevel", "gl"},
		{"LogFile", "logfile"},
		{"WorkerCount", "wc"},
		{"StoreDriver", "store"},
		{"StorePath", "db"},
		{"Grouping", "grouping"},
		{"LdaTopics", "topics"},
		{"LdaIterations", "iter"},
		{"LdaSeed", "seed"},
		{"LdaPOS", "pos"},
		{"StopwordFile", "stopwords"},
		{"ProfileCPU", "profcpu"},
		{"ProfileMEM", "profmem"},
		{"QuietStart", "q"},
	}
	for _, b := range bb {
		if err := vpr.BindPFlag(b.key, pf.Lookup(b.flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd, ingestCmd, fitCmd, statsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// startprofiling - returns the function that stops it; a no-op unless the configuration asks for a profile
func startprofiling() func() {
	switch {
	case lnch.Config.ProfileCPU:
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop
	case lnch.Config.ProfileMEM:
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop
	default:
		return func() {}
	}
}

// openengine - store + engine, brought up to date with the current configuration
func openengine(ctx context.Context) (*corpus.Engine, error) {
	st, err := db.OpenStore(ctx, *lnch.Config)
	if err != nil {
		return nil, err
	}
	eng, err := corpus.NewEngine(*lnch.Config, st, nil)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if err = eng.Prepare(ctx); err != nil {
		_ = eng.Close()
		return nil, err
	}
	return eng, nil
}
