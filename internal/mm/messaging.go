//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

//
// TERMINAL OUTPUT/MESSAGES
//

const (
	MSGMAND              = -1
	MSGCRIT              = 0
	MSGWARN              = 1
	MSGNOTE              = 2
	MSGFYI               = 3
	MSGPEEK              = 4
	MSGTMI               = 5
	TIMETRACKERMSGTHRESH = MSGFYI
	RESET                = "\033[0m"
	BLUE1                = "\033[38;5;38m"  // DeepSkyBlue2
	BLUE2                = "\033[38;5;68m"  // SteelBlue3
	CYAN2                = "\033[38;5;117m" // SkyBlue1
	GREEN                = "\033[38;5;70m"  // Chartreuse3
	RED1                 = "\033[38;5;160m" // Red3
	YELLOW1              = "\033[38;5;178m" // Gold3
	YELLOW2              = "\033[38;5;143m" // DarkKhaki
	GREY3                = "\033[38;5;242m" // Grey42
	WHITE                = "\033[38;5;255m" // Grey93
	BLINK                = "\033[30;0;5m"
	PANIC                = "[%s%s v.%s%s] %sUNRECOVERABLE ERROR%s\n"
	PANIC2               = "[%s%s v.%s%s] (%s%s%s) %sUNRECOVERABLE ERROR%s\n"
)

// MessageMaker - terminal messages with colour and thresholds; every message that passes the threshold
// is also handed to the structured logger
type MessageMaker struct {
	Lnc  time.Time
	BW   bool
	Clr  string
	LLvl int
	LNm  string
	SNm  string
	Ver  string
	Win  bool
	Out  io.Writer
	Log  *slog.Logger
	mtx  sync.Mutex
}

func NewMessageMaker(longname, shortname, version string) *MessageMaker {
	w := false
	if runtime.GOOS == "windows" {
		w = true
	}
	return &MessageMaker{
		Lnc: time.Now(),
		LNm: longname,
		SNm: shortname,
		Ver: version,
		Win: w,
		Out: os.Stdout,
	}
}

// AttachLogFile - fan structured records out to a JSON log file as well as anything already attached
func (m *MessageMaker) AttachLogFile(w io.Writer, extra ...slog.Handler) {
	hh := []slog.Handler{slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})}
	hh = append(hh, extra...)
	m.mtx.Lock()
	m.Log = slog.New(slogmulti.Fanout(hh...)).With("app", m.SNm, "version", m.Ver)
	m.mtx.Unlock()
}

// SlogLevel - the slog level that corresponds to a message threshold
func SlogLevel(threshold int) slog.Level {
	switch threshold {
	case MSGCRIT:
		return slog.LevelError
	case MSGWARN:
		return slog.LevelWarn
	case MSGMAND, MSGNOTE, MSGFYI:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Emit - send a message to the terminal, perhaps adding color and style to it
func (m *MessageMaker) Emit(message string, threshold int, attrs ...any) {
	// sample output: "[PSS] fitted 2024: 5 topics over 38 documents"

	if m.LLvl < threshold {
		return
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.Log != nil {
		m.Log.Log(context.Background(), SlogLevel(threshold), message, attrs...)
	}

	if len(attrs) > 0 {
		message = message + " " + fmtattrs(attrs)
	}

	if !m.Win && !m.BW {
		var color string

		switch threshold {
		case MSGMAND:
			color = GREEN
		case MSGCRIT:
			color = RED1
		case MSGWARN:
			color = YELLOW2
		case MSGNOTE:
			color = YELLOW1
		case MSGFYI:
			color = CYAN2
		case MSGPEEK:
			color = BLUE2
		case MSGTMI:
			color = GREY3
		default:
			color = WHITE
		}
		_, _ = fmt.Fprintf(m.Out, "[%s%s%s] %s%s%s\n", YELLOW1, m.SNm, RESET, color, message, RESET)
	} else {
		// terminal color codes not w's friend
		_, _ = fmt.Fprintf(m.Out, "[%s] %s\n", m.SNm, message)
	}
}

func fmtattrs(attrs []any) string {
	var sb strings.Builder
	for i := 0; i+1 < len(attrs); i += 2 {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%v=%v", attrs[i], attrs[i+1]))
	}
	return sb.String()
}

func (m *MessageMaker) MAND(s string, attrs ...any) { m.Emit(s, MSGMAND, attrs...) }
func (m *MessageMaker) CRIT(s string, attrs ...any) { m.Emit(s, MSGCRIT, attrs...) }
func (m *MessageMaker) WARN(s string, attrs ...any) { m.Emit(s, MSGWARN, attrs...) }
func (m *MessageMaker) NOTE(s string, attrs ...any) { m.Emit(s, MSGNOTE, attrs...) }
func (m *MessageMaker) FYI(s string, attrs ...any)  { m.Emit(s, MSGFYI, attrs...) }
func (m *MessageMaker) PEEK(s string, attrs ...any) { m.Emit(s, MSGPEEK, attrs...) }
func (m *MessageMaker) TMI(s string, attrs ...any)  { m.Emit(s, MSGTMI, attrs...) }

// Color - color text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Color(tagged string) string {
	// "[git: C4%sC0]" ==> green text for the %s
	swap := strings.NewReplacer("C1", "", "C2", "", "C3", "", "C4", "", "C5", "", "C6", "", "C7", "", "C0", "")

	if !m.Win && !m.BW {
		swap = strings.NewReplacer("C1", YELLOW1, "C2", CYAN2, "C3", BLUE1, "C4", GREEN, "C5", RED1,
			"C6", GREY3, "C7", BLINK, "C0", RESET)
	}
	return swap.Replace(tagged)
}

// Styled - style text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Styled(tagged string) string {
	const (
		BOLD    = "\033[1m"
		ITAL    = "\033[3m"
		UNDER   = "\033[4m"
		REVERSE = "\033[7m"
		STRIKE  = "\033[9m"
	)
	swap := strings.NewReplacer("S1", "", "S2", "", "S3", "", "S4", "", "S5", "", "S0", "")

	if !m.Win && !m.BW {
		swap = strings.NewReplacer("S1", BOLD, "S2", ITAL, "S3", UNDER, "S4", STRIKE, "S5", REVERSE,
			"S0", RESET)
	}
	return swap.Replace(tagged)
}

func (m *MessageMaker) ColStyle(tagged string) string {
	return m.Styled(m.Color(tagged))
}

// EC - report an unrecoverable error and exit
func (m *MessageMaker) EC(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(m.Out, PANIC, YELLOW2, m.LNm, m.Ver, RESET, RED1, RESET)
		_, _ = fmt.Fprintln(m.Out, err)
		os.Exit(1)
	}
}

// EF - report an unrecoverable error and the function that hit it
func (m *MessageMaker) EF(err error, fn string) {
	if err != nil {
		_, _ = fmt.Fprintf(m.Out, PANIC2, YELLOW2, m.LNm, m.Ver, RESET, CYAN2, fn, RESET, RED1, RESET)
		_, _ = fmt.Fprintln(m.Out, err)
		os.Exit(1)
	}
}

// Timer - report how much time elapsed between A and B
func (m *MessageMaker) Timer(letter string, o string, start time.Time, previous time.Time) {
	// sample output: "[B2: 3.764s][Δ: 1.024s] fitted 2024"
	d := fmt.Sprintf("[Δ: %.3fs] ", time.Since(previous).Seconds())
	o = fmt.Sprintf("[%s: %.3fs]", letter, time.Since(start).Seconds()) + d + o
	m.Emit(o, TIMETRACKERMSGTHRESH)
}
