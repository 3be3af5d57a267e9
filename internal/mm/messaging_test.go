//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietmaker(lvl int) (*MessageMaker, *bytes.Buffer) {
	var out bytes.Buffer
	m := NewMessageMaker("PaperScope Server", "PSS", "test")
	m.BW = true
	m.LLvl = lvl
	m.Out = &out
	return m, &out
}

func TestEmitHonoursThreshold(t *testing.T) {
	m, out := quietmaker(MSGWARN)
	m.TMI("not shown")
	m.WARN("shown")
	assert.Equal(t, "[PSS] shown\n", out.String())
}

func TestEmitFansOutToJSON(t *testing.T) {
	m, _ := quietmaker(MSGFYI)
	var logged bytes.Buffer
	m.AttachLogFile(&logged)
	m.FYI("fitted", "group", "2024")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(logged.Bytes(), &rec))
	assert.Equal(t, "fitted", rec["msg"])
	assert.Equal(t, "2024", rec["group"])
	assert.Equal(t, "PSS", rec["app"])
}

func TestColorStripsTagsInBW(t *testing.T) {
	m, _ := quietmaker(0)
	assert.Equal(t, "[git: abc]", m.ColStyle("[S1git: C4abcC0S0]"))
}

func TestPathInfoHub(t *testing.T) {
	m, _ := quietmaker(0)
	h := NewPathInfoHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	m.LogPaths(h, "RtHealth()")
	m.LogPaths(h, "RtHealth()")

	assert.Eventually(t, func() bool {
		return h.Snapshot(ctx)["RtHealth()"] == 2
	}, time.Second, 10*time.Millisecond)
}
