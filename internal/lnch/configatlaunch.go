//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/mm"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	Config = BuildDefaultConfig()
	Msg    = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BetweennessCap = vv.BETWEENNESSCAP
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.CloudCacheSize = vv.CLOUDCACHESIZE
	c.CloudHeight = vv.CLOUDHEIGHT
	c.CloudMaxWords = vv.CLOUDMAXWORDS
	c.CloudWidth = vv.CLOUDWIDTH
	c.CommunitySeed = vv.COMMUNITYSEED
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.FitTimeout = int(vv.LDAFITTIMEOUT.Seconds())
	c.Grouping = vv.DEFAULTGROUPBY
	c.Gzip = vv.USEGZIP
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.LdaIterations = vv.LDAITER
	c.LdaKeywords = vv.LDAKEYWORDS
	c.LdaMinDocs = vv.LDAMINDOCS
	c.LdaPasses = vv.LDAXFORMPASSES
	c.LdaPOS = false
	c.LdaSeed = vv.LDASEED
	c.LdaTopics = vv.LDATOPICS
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.MaxLinks = vv.MAXGRAPHLINKS
	c.MaxNodes = vv.MAXGRAPHNODES
	c.MinTokenLen = vv.MINTOKENLEN
	c.ReqPerSecond = vv.MAXECHOREQPERSECONDPERIP
	c.StoreDriver = vv.DEFAULTSTORE
	c.StorePath = vv.DEFAULTDBPATH
	c.WorkerCount = runtime.NumCPU()

	c.PGLogin = str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	return &c
}

// NewViper - a viper instance primed with the defaults, the config search path and the environment prefix
func NewViper() *viper.Viper {
	v := viper.New()
	d := BuildDefaultConfig()

	v.SetDefault("BetweennessCap", d.BetweennessCap)
	v.SetDefault("BlackAndWhite", d.BlackAndWhite)
	v.SetDefault("CloudCacheSize", d.CloudCacheSize)
	v.SetDefault("CloudHeight", d.CloudHeight)
	v.SetDefault("CloudMaxWords", d.CloudMaxWords)
	v.SetDefault("CloudWidth", d.CloudWidth)
	v.SetDefault("CommunitySeed", d.CommunitySeed)
	v.SetDefault("DataFile", d.DataFile)
	v.SetDefault("EchoLog", d.EchoLog)
	v.SetDefault("FitTimeout", d.FitTimeout)
	v.SetDefault("Grouping", d.Grouping)
	v.SetDefault("Gzip", d.Gzip)
	v.SetDefault("HostIP", d.HostIP)
	v.SetDefault("HostPort", d.HostPort)
	v.SetDefault("LdaIterations", d.LdaIterations)
	v.SetDefault("LdaKeywords", d.LdaKeywords)
	v.SetDefault("LdaMinDocs", d.LdaMinDocs)
	v.SetDefault("LdaPasses", d.LdaPasses)
	v.SetDefault("LdaPOS", d.LdaPOS)
	v.SetDefault("LdaSeed", d.LdaSeed)
	v.SetDefault("LdaTopics", d.LdaTopics)
	v.SetDefault("LogFile", d.LogFile)
	v.SetDefault("LogLevel", d.LogLevel)
	v.SetDefault("MaxLinks", d.MaxLinks)
	v.SetDefault("MaxNodes", d.MaxNodes)
	v.SetDefault("MinTokenLen", d.MinTokenLen)
	v.SetDefault("ReqPerSecond", d.ReqPerSecond)
	v.SetDefault("StopwordFile", d.StopwordFile)
	v.SetDefault("StoreDriver", d.StoreDriver)
	v.SetDefault("StorePath", d.StorePath)
	v.SetDefault("WorkerCount", d.WorkerCount)
	v.SetDefault("PGLogin.Host", d.PGLogin.Host)
	v.SetDefault("PGLogin.Port", d.PGLogin.Port)
	v.SetDefault("PGLogin.User", d.PGLogin.User)
	v.SetDefault("PGLogin.Pass", d.PGLogin.Pass)
	v.SetDefault("PGLogin.DBName", d.PGLogin.DBName)

	v.SetConfigName(vv.CONFIGBASIC)
	v.AddConfigPath(vv.CONFIGLOCATION)
	if h, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(fmt.Sprintf(vv.CONFIGALTAPTH, h))
	}

	v.SetEnvPrefix(vv.ENVPREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ConfigAtLaunch - read the configuration values from the config file, .env, the environment and the command line;
// cfgfile overrides the search path when it is not empty
func ConfigAtLaunch(v *viper.Viper, cfgfile string) (*str.CurrentConfiguration, error) {
	const (
		FAIL1 = "could not parse '%s': %w"
		FAIL2 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		FAIL3 = "could not decode the configuration: %w"
		FAIL4 = "could not read '.env': %s"
		FAIL5 = "unknown store driver '%s'"
		MSG1  = "configuration loaded from '%s'"
		MSG2  = "no configuration file found; using defaults, environment and flags"
	)

	// a missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		Msg.TMI(fmt.Sprintf(FAIL4, err.Error()))
	}

	if cfgfile != "" {
		v.SetConfigFile(cfgfile)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf(FAIL1, cfgfile, err)
		}
		Msg.TMI(MSG2)
	} else {
		Msg.TMI(fmt.Sprintf(MSG1, v.ConfigFileUsed()))
	}

	c := BuildDefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf(FAIL3, err)
	}

	if c.WorkerCount > runtime.NumCPU() || c.WorkerCount < 1 {
		Msg.CRIT(fmt.Sprintf(FAIL2, c.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		c.WorkerCount = runtime.NumCPU()
	}

	switch c.StoreDriver {
	case vv.STOREMEMORY, vv.STORESQLITE, vv.STORESQLITECGO, vv.STOREPOSTGRES:
	default:
		return nil, fmt.Errorf(FAIL5, c.StoreDriver)
	}

	if c.LdaTopics > vv.LDAMAXTOPICS {
		c.LdaTopics = vv.LDAMAXTOPICS
	}

	Config = c
	UpdateMessageMakerWithConfig(Msg)
	return c, nil
}

// UpdateMessageMakerWithConfig - push the relevant configuration values into a message maker
func UpdateMessageMakerWithConfig(m *mm.MessageMaker) {
	const (
		FAIL1 = "could not open log file '%s': %s"
	)
	m.BW = Config.BlackAndWhite
	m.LLvl = Config.LogLevel
	if Config.LogFile != "" {
		f, err := os.OpenFile(Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, vv.WRITEPERMS)
		if err != nil {
			m.WARN(fmt.Sprintf(FAIL1, Config.LogFile, err.Error()))
			return
		}
		m.AttachLogFile(f)
	}
}
