package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/runner"
	"github.com/mj1618/desktop-scenarios/internal/scenario"
	"github.com/mj1618/desktop-scenarios/internal/slot"
)

// toText serializes v to YAML for an MCP response.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func resultToToolResult(res runner.Result) *mcp.CallToolResult {
	if !res.OK() {
		return mcp.NewToolResultError(toText(res))
	}
	return mcp.NewToolResultText(toText(res))
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := action.StringParam(params, "name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	initial, err := stringMap(action.MapParam(params, "vars"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeout := s.engine.Config().AcquireTimeout.Std()
	secs, err := action.FloatParam(params, "timeout", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if secs > 0 {
		timeout = time.Duration(secs * float64(time.Second))
	}

	res, err := s.engine.RunExclusive(ctx, name, initial, timeout)
	if err != nil {
		if errors.Is(err, slot.ErrBusy) {
			return mcp.NewToolResultError(fmt.Sprintf("%v; try again later or call cancel_run", err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.results.Put(res)
	return resultToToolResult(res), nil
}

func (s *Server) handleList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.engine.Store().List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("[]\n"), nil
	}
	return mcp.NewToolResultText(toText(entries)), nil
}

// validationReport is the validate_scenario response.
type validationReport struct {
	File   string   `yaml:"file"`
	Valid  bool     `yaml:"valid"`
	Steps  int      `yaml:"steps"`
	Errors []string `yaml:"errors,omitempty"`
}

func (s *Server) handleValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	path := action.StringParam(params, "path", "")
	name := action.StringParam(params, "name", "")
	if path == "" && name == "" {
		return mcp.NewToolResultError("one of name or path is required"), nil
	}
	if path == "" {
		p, err := s.engine.Store().Resolve(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path = p
	}

	report := validationReport{File: path}
	sc, err := scenario.LoadFile(path)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return mcp.NewToolResultError(toText(report)), nil
	}
	report.Steps = sc.Len()
	errs, err := s.engine.Check(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, e := range errs {
		report.Errors = append(report.Errors, e.Error())
	}
	report.Valid = len(report.Errors) == 0
	if !report.Valid {
		return mcp.NewToolResultError(toText(report)), nil
	}
	return mcp.NewToolResultText(toText(report)), nil
}

func (s *Server) handleCancel(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.engine.Cancel() {
		return mcp.NewToolResultText("cancelled: false\nreason: no scenario is running\n"), nil
	}
	return mcp.NewToolResultText("cancelled: true\n"), nil
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(s.engine.Status())), nil
}

func (s *Server) handleGetResult(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := action.StringParam(request.GetArguments(), "run_id", "")
	res, ok := s.results.Get(runID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no result for run %q", runID)), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}

// stringMap accepts a flat object of primitives.
func stringMap(m map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v := v.(type) {
		case string:
			out[k] = v
		case float64, bool, int, int64:
			out[k] = fmt.Sprint(v)
		case nil:
			out[k] = ""
		default:
			return nil, fmt.Errorf("vars.%s must be a string, number or boolean", k)
		}
	}
	return out, nil
}
