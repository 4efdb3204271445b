// Package mcpserver exposes saved avim projects to MCP clients as read-only
// tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/ashutoshmjain/avim/internal/logging"
	"github.com/ashutoshmjain/avim/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

const (
	serverName    = "avim"
	serverVersion = "0.1.0"
)

// ClipView is how a clip is reported to MCP clients.
type ClipView struct {
	Index      int     `json:"index"`
	ID         int     `json:"id"`
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Transcript string  `json:"transcript"`
	Comment    string  `json:"comment,omitempty"`
	Adjusted   bool    `json:"manually_adjusted"`
}

// Stats summarises the corrections made in a project.
type Stats struct {
	AudioPath        string  `json:"audio_path"`
	Clips            int     `json:"clips"`
	ManuallyAdjusted int     `json:"manually_adjusted"`
	Commented        int     `json:"commented"`
	Words            int     `json:"words"`
	MeanWordsPerClip float64 `json:"mean_words_per_clip"`
}

type handlers struct {
	log *logrus.Entry
}

// New returns an MCP server with the project tools registered.
func New(log *logrus.Entry) *server.MCPServer {
	if log == nil {
		log = logging.Discard()
	}
	h := &handlers{log: log}
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	projectArg := mcp.WithString("project",
		mcp.Required(),
		mcp.Description("Path to a saved .avim project file"),
	)

	s.AddTool(mcp.NewTool("list_clips",
		mcp.WithDescription("List every clip in a project with its timing, speaker and transcript"),
		projectArg,
	), h.listClips)

	s.AddTool(mcp.NewTool("get_clip",
		mcp.WithDescription("Get a single clip by its zero-based position"),
		projectArg,
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based clip position")),
	), h.getClip)

	s.AddTool(mcp.NewTool("search_clips",
		mcp.WithDescription("Find clips whose transcript or comment contains the query, ignoring case"),
		projectArg,
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
	), h.searchClips)

	s.AddTool(mcp.NewTool("correction_stats",
		mcp.WithDescription("Summarise manual corrections and word counts in a project"),
		projectArg,
	), h.correctionStats)

	return s
}

// ServeStdio serves s over stdin and stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (h *handlers) listClips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := h.load(req)
	if errResult != nil {
		return errResult, nil
	}
	views := make([]ClipView, len(p.Clips))
	for i, c := range p.Clips {
		views[i] = viewOf(i, c)
	}
	return jsonResult(views)
}

func (h *handlers) getClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := h.load(req)
	if errResult != nil {
		return errResult, nil
	}
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if index < 0 || index >= len(p.Clips) {
		return mcp.NewToolResultError(fmt.Sprintf("index %d out of range (project has %d clips)", index, len(p.Clips))), nil
	}
	return jsonResult(viewOf(index, p.Clips[index]))
}

func (h *handlers) searchClips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := h.load(req)
	if errResult != nil {
		return errResult, nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	views := []ClipView{}
	for _, i := range Search(p.Clips, query) {
		views = append(views, viewOf(i, p.Clips[i]))
	}
	return jsonResult(views)
}

func (h *handlers) correctionStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := h.load(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(Summarize(p))
}

// load reads the project named by the request, turning failures into a tool
// error result.
func (h *handlers) load(req mcp.CallToolRequest) (project.Project, *mcp.CallToolResult) {
	path, err := req.RequireString("project")
	if err != nil {
		return project.Project{}, mcp.NewToolResultError(err.Error())
	}
	p, err := project.Load(path)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"tool":    req.Params.Name,
			"project": path,
		}).Warn("load project")
		return project.Project{}, mcp.NewToolResultError(fmt.Sprintf("load %s: %v", path, err))
	}
	h.log.WithFields(logrus.Fields{
		"tool":    req.Params.Name,
		"project": path,
		"clips":   len(p.Clips),
	}).Debug("tool call")
	return p, nil
}

// Search returns the positions of clips whose transcript or comment contains
// query, ignoring case. An empty query matches nothing.
func Search(clips []clip.Clip, query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []int
	for i, c := range clips {
		if strings.Contains(strings.ToLower(c.Transcript), q) ||
			strings.Contains(strings.ToLower(c.Comment), q) {
			out = append(out, i)
		}
	}
	return out
}

// Summarize counts corrections and words in p.
func Summarize(p project.Project) Stats {
	st := Stats{AudioPath: p.AudioPath, Clips: len(p.Clips)}
	for _, c := range p.Clips {
		if c.IsManuallyAdjusted {
			st.ManuallyAdjusted++
		}
		if c.Comment != "" {
			st.Commented++
		}
		st.Words += len(c.Words())
	}
	if st.Clips > 0 {
		st.MeanWordsPerClip = float64(st.Words) / float64(st.Clips)
	}
	return st
}

func viewOf(i int, c clip.Clip) ClipView {
	return ClipView{
		Index:      i,
		ID:         c.ID,
		Speaker:    c.Speaker,
		Start:      c.StartTime,
		End:        c.EndTime,
		Transcript: c.Transcript,
		Comment:    c.Comment,
		Adjusted:   c.IsManuallyAdjusted,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
