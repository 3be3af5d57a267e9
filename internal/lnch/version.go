//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
)

// set from main.go, which gets them from '-ldflags "-X main.GitCommit=$GIT_COMMIT"', etc

var GitCommit string
var VersSuppl string
var BuildDate string

// Build - what the binary knows about itself; reported by "version", at startup, and by /api/health
type Build struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Golang  string `json:"golang"`
	System  string `json:"system"`
}

// CurrentBuild - the injected values win; otherwise fall back on whatever vcs stamping the toolchain did
func CurrentBuild() Build {
	const (
		SHORTREV = 8
	)

	b := Build{
		Name:    vv.MYNAME,
		Version: vv.VERSION + VersSuppl,
		Commit:  GitCommit,
		Date:    BuildDate,
		Golang:  runtime.Version(),
		System:  runtime.GOOS + "-" + runtime.GOARCH,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && b.Commit == "":
				b.Commit = s.Value[:min(SHORTREV, len(s.Value))]
			case s.Key == "vcs.time" && b.Date == "":
				b.Date = s.Value
			}
		}
	}
	return b
}

// PrintVersion - e.g. "[PSS] PaperScope Server (v0.4.2) [git: 64974732] [gl=3; el=0]"
func PrintVersion(cc str.CurrentConfiguration) {
	b := CurrentBuild()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[C1%sC0] C5%sC0 (C2v%sC0)", vv.SHORTNAME, b.Name, b.Version))
	if b.Commit != "" {
		sb.WriteString(fmt.Sprintf(" [C4git: C4%sC0]", b.Commit))
	}
	sb.WriteString(fmt.Sprintf(" [C6gl=%d; el=%dC0]", cc.LogLevel, cc.EchoLog))
	fmt.Println(Msg.ColStyle(sb.String()))
}

// PrintBuildInfo - e.g. "Built: 2024-03-02T19:02:51Z   Golang: go1.23.1   System: linux-amd64   Workers: 8/8"
func PrintBuildInfo(cc str.CurrentConfiguration) {
	const (
		FIELD = "\tS1%s:S0\tC3%sC0"
	)

	b := CurrentBuild()
	pairs := [][2]string{
		{"Built", b.Date},
		{"Golang", b.Golang},
		{"System", b.System},
		{"Workers", fmt.Sprintf("%d/%d", cc.WorkerCount, runtime.NumCPU())},
	}

	var sb strings.Builder
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(FIELD, p[0], p[1]))
	}
	fmt.Println(Msg.ColStyle(sb.String()))
}

// PrintCopyright - the terminal copyright notice; skipped with QuietStart
func PrintCopyright(cc str.CurrentConfiguration) {
	if cc.QuietStart {
		return
	}
	fmt.Println(Msg.Styled(fmt.Sprintf(vv.TERMINALTEXT, vv.PROJYEAR, vv.PROJAUTH, vv.PROJURL)))
}
