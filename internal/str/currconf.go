//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type CurrentConfiguration struct {
	BetweennessCap int
	BlackAndWhite  bool
	CloudCacheSize int
	CloudHeight    int
	CloudMaxWords  int
	CloudWidth     int
	CommunitySeed  int64
	DataFile       string
	EchoLog        int // 0: "none", 1: "terse", 2: "prolix", 3: "full"
	FitTimeout     int // seconds
	Grouping       string
	Gzip           bool
	HostIP         string
	HostPort       int
	LdaIterations  int
	LdaKeywords    int
	LdaMinDocs     int
	LdaPasses      int
	LdaPOS         bool
	LdaSeed        int64
	LdaTopics      int
	LogFile        string
	LogLevel       int
	MaxLinks       int
	MaxNodes       int
	MinTokenLen    int
	PGLogin        PostgresLogin
	ProfileCPU     bool
	ProfileMEM     bool
	QuietStart     bool
	ReqPerSecond   int
	StopwordFile   string
	StoreDriver    string
	StorePath      string
	WorkerCount    int
}
