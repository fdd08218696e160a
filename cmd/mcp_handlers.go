package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/i3layout/internal/i3"
	"github.com/mj1618/i3layout/internal/script"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// toText serializes a tool result to YAML for the MCP response.
func toText(v any) (*mcp.CallToolResult, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toErrorText is toText for results that describe a failure.
func toErrorText(v any) (*mcp.CallToolResult, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(b)), nil
}

// sessionPlan builds the plan named by the "session" or "source" argument.
func (s *mcpServer) sessionPlan(params map[string]interface{}) (i3.Plan, error) {
	path := stringParam(params, "session", "")
	source := stringParam(params, "source", "")

	var plan i3.Plan
	var err error
	switch {
	case path != "" && source != "":
		return nil, errors.New("pass either session or source, not both")
	case source != "":
		plan, err = parsePlan([]byte(source))
	case path != "":
		plan, err = s.cache.plan(path)
		if err != nil {
			s.cache.invalidate(path)
		}
	default:
		return nil, errors.New("session or source is required")
	}
	if err != nil {
		return nil, err
	}
	return selectWorkspaces(plan, stringsParam(params, "workspaces"))
}

func paramOptions(params map[string]interface{}) i3.Options {
	return i3.Options{
		SkipLayout:           boolParam(params, "skip-layout", false),
		SkipCommands:         boolParam(params, "skip-commands", false),
		NoWorkspaceSwitching: boolParam(params, "no-workspace-switching", false),
	}
}

func (s *mcpServer) handleRender(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	plan, err := s.sessionPlan(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if boolParam(params, "strip-marks", false) {
		plan = append(i3.Plan(nil), plan...)
		for i := range plan {
			plan[i].Root = plan[i].Root.WithoutMarks()
		}
	}
	out, err := renderLayouts(plan, intParam(params, "indent", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *mcpServer) handleCommands(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := s.sessionPlan(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(collectCommands(plan))
}

func (s *mcpServer) handleScript(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	plan, err := s.sessionPlan(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := script.Render(plan, paramOptions(params))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *mcpServer) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	plan, err := s.sessionPlan(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	logger.Info("mcp run", zap.Strings("workspaces", planNames(plan)))
	res := runPlan(ctx, s.runner, plan, paramOptions(params))
	if !res.OK {
		// Rebuild every session on the next call.
		s.cache.invalidateAll()
		return toErrorText(res)
	}
	return toText(res)
}

func (s *mcpServer) handleMatch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	plan, err := s.sessionPlan(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attrs := map[string]string{}
	for _, a := range matchAttributes {
		if v := stringParam(params, a.attr, ""); v != "" {
			attrs[a.attr] = v
		}
	}
	return toText(matchWindows(plan, attrs))
}

func (s *mcpServer) handleImport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	layout := stringParam(params, "layout", "")
	if layout == "" {
		return mcp.NewToolResultError("layout is required"), nil
	}
	out, err := importLayout([]byte(layout), importOptions{
		Workspace:  stringParam(params, "workspace", ""),
		StripMarks: boolParam(params, "strip-marks", false),
		To:         stringParam(params, "to", "session"),
		Indent:     intParam(params, "indent", 2),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *mcpServer) handlePattern(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	regex := stringParam(params, "regex", "")
	if regex == "" {
		return mcp.NewToolResultError("regex is required"), nil
	}
	res, err := describePattern(regex, stringParam(params, "test", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", regex, err)), nil
	}
	return toText(res)
}

func (s *mcpServer) handlePresets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toText(listPresets())
}
