//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "PaperScope Server"
	SHORTNAME = "PSS"
	VERSION   = "0.4.2"

	BLACKANDWHITE            = false
	CONFIGLOCATION           = "."
	CONFIGALTAPTH            = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC              = "pss-conf"    // viper tries .yaml, .json, .toml
	DEFAULTECHOLOGLEVEL      = 0
	DEFAULTGOLOGLEVEL        = 0
	DEFAULTPSQLHOST          = "127.0.0.1"
	DEFAULTPSQLUSER          = "pss_wr"
	DEFAULTPSQLPORT          = 5432
	DEFAULTPSQLDB            = "paperscope"
	ENVPREFIX                = "PSS"
	JSONINDENT               = "  "
	MAXECHOREQPERSECONDPERIP = 60
	MAXUPLOADBYTES           = 32 << 20
	SERVEDFROMHOST           = "127.0.0.1"
	SERVEDFROMPORT           = 5000
	SHUTDOWNGRACE            = 10 * time.Second
	TIMEOUTRD                = 15 * time.Second
	TIMEOUTWR                = 120 * time.Second
	USEGZIP                  = false
	WRITEPERMS               = 0644
	WSPOLLINGPAUSE           = 10000000 * 10 // 10000000 * 10 = every .1s

	STOREMEMORY    = "memory"
	STORESQLITE    = "sqlite"     // modernc.org/sqlite; no cgo
	STORESQLITECGO = "sqlite-cgo" // mattn/go-sqlite3
	STOREPOSTGRES  = "postgres"
	DEFAULTSTORE   = STOREMEMORY
	DEFAULTDBPATH  = "paperscope.db"

	GROUPBYYEAR    = "year"
	GROUPBYBUCKET  = "bucket" // "bucket:5" --> "2020-2024"
	GROUPBYALL     = "all"
	DEFAULTGROUPBY = GROUPBYYEAR
)
