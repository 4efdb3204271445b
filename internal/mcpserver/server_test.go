package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/ashutoshmjain/avim/internal/logging"
	"github.com/ashutoshmjain/avim/internal/project"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk"+project.Extension)
	p := project.Project{
		AudioPath: "talk.wav",
		Clips: []clip.Clip{
			{ID: 1, Speaker: "A", Transcript: "Hello there", StartTime: 0, EndTime: 1.5},
			{ID: 2, Speaker: "B", Transcript: "general kenobi", StartTime: 1.5, EndTime: 3, IsManuallyAdjusted: true},
			{ID: 3, Speaker: "A", Transcript: "you are a bold one", StartTime: 3, EndTime: 4, Comment: "hello again"},
		},
	}
	require.NoError(t, project.Save(path, p))
	return path
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestListClips(t *testing.T) {
	h := &handlers{log: logging.Discard()}
	res, err := h.listClips(context.Background(), call("list_clips", map[string]any{"project": writeProject(t)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var views []ClipView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	require.Len(t, views, 3)
	assert.Equal(t, 1, views[1].Index)
	assert.Equal(t, "general kenobi", views[1].Transcript)
	assert.True(t, views[1].Adjusted)
	assert.Equal(t, 1.5, views[1].Start)
}

func TestGetClip(t *testing.T) {
	h := &handlers{log: logging.Discard()}
	path := writeProject(t)

	res, err := h.getClip(context.Background(), call("get_clip", map[string]any{"project": path, "index": float64(2)}))
	require.NoError(t, err)
	var view ClipView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
	assert.Equal(t, 3, view.ID)
	assert.Equal(t, "hello again", view.Comment)

	res, err = h.getClip(context.Background(), call("get_clip", map[string]any{"project": path, "index": float64(7)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "out of range")
}

func TestSearchClips(t *testing.T) {
	h := &handlers{log: logging.Discard()}
	path := writeProject(t)

	res, err := h.searchClips(context.Background(), call("search_clips", map[string]any{"project": path, "query": "HELLO"}))
	require.NoError(t, err)
	var views []ClipView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	require.Len(t, views, 2)
	assert.Equal(t, 0, views[0].Index)
	assert.Equal(t, 2, views[1].Index, "comment matches count")

	res, err = h.searchClips(context.Background(), call("search_clips", map[string]any{"project": path, "query": "obi-wan"}))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, res))
}

func TestCorrectionStats(t *testing.T) {
	h := &handlers{log: logging.Discard()}
	res, err := h.correctionStats(context.Background(), call("correction_stats", map[string]any{"project": writeProject(t)}))
	require.NoError(t, err)

	var st Stats
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &st))
	assert.Equal(t, Stats{
		AudioPath:        "talk.wav",
		Clips:            3,
		ManuallyAdjusted: 1,
		Commented:        1,
		Words:            9,
		MeanWordsPerClip: 3,
	}, st)
}

func TestInvalidProjectIsToolError(t *testing.T) {
	h := &handlers{log: logging.Discard()}
	bad := filepath.Join(t.TempDir(), "bad.avim")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "a project"}`), 0o644))

	for _, path := range []string{bad, filepath.Join(t.TempDir(), "missing.avim")} {
		res, err := h.listClips(context.Background(), call("list_clips", map[string]any{"project": path}))
		require.NoError(t, err)
		assert.True(t, res.IsError, path)
	}

	res, err := h.listClips(context.Background(), call("list_clips", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "missing project argument")
}

func TestSearchEmptyQuery(t *testing.T) {
	clips := []clip.Clip{{Transcript: "anything"}}
	assert.Empty(t, Search(clips, "   "))
}

func TestSummarizeEmpty(t *testing.T) {
	st := Summarize(project.Project{AudioPath: "a.wav", Clips: []clip.Clip{}})
	assert.Equal(t, 0, st.Clips)
	assert.Zero(t, st.MeanWordsPerClip)
}

// TestInProcessClient talks to the server the way an MCP client would.
func TestInProcessClient(t *testing.T) {
	ctx := context.Background()
	c, err := client.NewInProcessClient(New(nil))
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "avim-test", Version: "1.0.0"}
	info, err := c.Initialize(ctx, initReq)
	require.NoError(t, err)
	assert.Equal(t, "avim", info.ServerInfo.Name)

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_clips", "get_clip", "search_clips", "correction_stats"}, names)

	res, err := c.CallTool(ctx, call("get_clip", map[string]any{"project": writeProject(t), "index": 0}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Hello there")
}
