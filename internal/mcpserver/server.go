// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the chart tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/empchart/internal/models"
)

const dataFormatURI = "empchart://data-format"

// ChartService is what the tools need from the view coordinator.
type ChartService interface {
	Outcome() models.LoadOutcome[*models.Dataset]
	BuildChartData(names ...string) models.ChartProjection
	LoadBookmark(ctx context.Context) models.LoadOutcome[models.ViewState]
	SaveBookmark(ctx context.Context, state models.ViewState) models.SaveOutcome
	ClearBookmark(ctx context.Context) models.SaveOutcome
}

// Server wraps the MCP server with the chart tools.
type Server struct {
	mcp *server.MCPServer
	svc ChartService
}

// New creates a new MCP server with all tools registered.
func New(svc ChartService) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"empchart",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_columns",
		mcp.WithDescription("List the column names of the loaded employment dataset and its row count."),
	), s.listColumns)

	s.mcp.AddTool(mcp.NewTool("get_chart_data",
		mcp.WithDescription("Project one or more dataset columns into chart data (date labels plus one dataset per column)."),
		mcp.WithArray("columns", mcp.Required(), mcp.WithStringItems(),
			mcp.Description("Column names, in the order the datasets should appear")),
	), s.getChartData)

	s.mcp.AddTool(mcp.NewTool("load_bookmark",
		mcp.WithDescription("Load the saved chart view (viewport bounds and selected columns)."),
	), s.loadBookmark)

	s.mcp.AddTool(mcp.NewTool("save_bookmark",
		mcp.WithDescription("Save the chart view, replacing any previous bookmark. "+
			"Read the format via get_data_contract or the empchart://data-format resource first."),
		mcp.WithNumber("xmin", mcp.Required(), mcp.Description("Left bound (row position)")),
		mcp.WithNumber("xmax", mcp.Required(), mcp.Description("Right bound (row position)")),
		mcp.WithNumber("ymin", mcp.Required(), mcp.Description("Lower bound (data value)")),
		mcp.WithNumber("ymax", mcp.Required(), mcp.Description("Upper bound (data value)")),
		mcp.WithArray("selections", mcp.WithStringItems(), mcp.Description("Selected column names")),
	), s.saveBookmark)

	s.mcp.AddTool(mcp.NewTool("clear_bookmark",
		mcp.WithDescription("Remove the saved chart view."),
	), s.clearBookmark)

	s.mcp.AddTool(mcp.NewTool("get_data_contract",
		mcp.WithDescription("Returns the JSON formats of the dataset, the bookmark and chart data."),
	), s.getDataContract)

	s.mcp.AddResource(
		mcp.NewResource(dataFormatURI, "Data Format Contract",
			mcp.WithResourceDescription("JSON formats of the dataset, the bookmark and chart data."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDataFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listColumns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := s.svc.Outcome()
	if !out.Succeeded {
		return mcp.NewToolResultError(out.Message), nil
	}
	body, _ := json.MarshalIndent(map[string]any{
		"names": out.Payload.Names(),
		"rows":  out.Payload.RowCount(),
	}, "", "  ")
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) getChartData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cols, err := req.RequireStringSlice("columns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(cols) == 0 {
		return mcp.NewToolResultError("at least one column is required"), nil
	}
	body, err := json.Marshal(s.svc.BuildChartData(cols...))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) loadBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := s.svc.LoadBookmark(ctx)
	if !out.Succeeded {
		return mcp.NewToolResultError(out.Message), nil
	}
	body, _ := json.MarshalIndent(out.Payload, "", "  ")
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) saveBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state models.ViewState
	bounds := []struct {
		name string
		dst  *float64
	}{
		{"xmin", &state.XMin}, {"xmax", &state.XMax},
		{"ymin", &state.YMin}, {"ymax", &state.YMax},
	}
	for _, b := range bounds {
		v, err := req.RequireFloat(b.name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*b.dst = v
	}
	state.Selections = req.GetStringSlice("selections", nil)

	out := s.svc.SaveBookmark(ctx, state)
	if !out.Succeeded {
		return mcp.NewToolResultError(out.Message), nil
	}
	msg := out.Message
	if len(state.Selections) > 0 {
		msg += ": " + strings.Join(state.Selections, ", ")
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) clearBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := s.svc.ClearBookmark(ctx)
	if !out.Succeeded {
		return mcp.NewToolResultError(out.Message), nil
	}
	return mcp.NewToolResultText(out.Message), nil
}

func (s *Server) getDataContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DataFormatContract), nil
}

func (s *Server) readDataFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      dataFormatURI,
			MIMEType: "text/markdown",
			Text:     DataFormatContract,
		},
	}, nil
}
