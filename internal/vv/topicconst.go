//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	LDATOPICS       = 5
	LDAMAXTOPICS    = 30
	LDAITER         = 200
	LDAXFORMPASSES  = 100
	LDABURNINPASSES = 2
	LDAPERPEVALFRQ  = 10
	LDAPERPTOL      = 1e-2
	LDASEED         = 42
	LDAMINDOCS      = 5
	LDAKEYWORDS     = 10
	LDAFOLDINITER   = 50
	LDAFOLDINALPHA  = 0.1
	LDAFITTIMEOUT   = 10 * time.Minute
	MINTOKENLEN     = 4 // words of length <= 3 are dropped
	SAMPLEWORDS     = 20

	TOPSTRINGTOPICS  = 3 // corpus-documents: "w1, w2, w3, w4, w5 (0.42) | ..."
	TOPSTRINGWORDS   = 5
	TOPICLABELWORDS  = 5
	ANALYSISLBLWORDS = 3
	TRENDINGPERGROUP = 5
	SIMTOPICSPERGRP  = 3
	SIMTOPICSTOTAL   = 10
	SIMDOCSPERGRP    = 5
	SIMDOCSTOTAL     = 10

	MAXGRAPHNODES  = 1000
	MAXGRAPHLINKS  = 2000
	MAXEGONEIGHB   = 50
	BETWEENNESSCAP = 1500
	COMMUNITYSEED  = 1
	TOPAUTHORS     = 10

	DEFAULTCHRTWIDTH  = "1500px"
	DEFAULTCHRTHEIGHT = "1200px"
	CLOUDWIDTH        = 1600
	CLOUDHEIGHT       = 800
	CLOUDMAXWORDS     = 200
	CLOUDCACHESIZE    = 64
	CLOUDMINFONT      = 12.0
	CLOUDMAXFONT      = 120.0
)
