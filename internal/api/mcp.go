package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quietloop/diarium/internal/journal"
	"github.com/quietloop/diarium/internal/vault"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Journal *journal.Service
}

// NewMCPServer creates an MCP server with all diarium tools registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"diarium",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("diarium — local journal with theme-derived memory links, reflection prompts, and trace reports."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("preview_template",
			mcp.WithDescription("Preview the entry template for a date without writing anything."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
			mcp.WithString("focus", mcp.Description("Optional focus area for the reflection prompts")),
		),
		mcpPreviewTemplate(deps),
	)

	s.AddTool(
		mcp.NewTool("create_entry",
			mcp.WithDescription("Create a templated journal entry for a date. Fails if the entry already exists."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
			mcp.WithString("focus", mcp.Description("Optional focus area for the reflection prompts")),
		),
		mcpCreateEntry(deps),
	)

	s.AddTool(
		mcp.NewTool("complete_entry",
			mcp.WithDescription("Finish an entry: derive its themes and write the Memory Links section."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
		),
		mcpCompleteEntry(deps),
	)

	s.AddTool(
		mcp.NewTool("update_backlinks",
			mcp.WithDescription("Regenerate the Memory Links section of an existing entry from its current content."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
		),
		mcpUpdateBacklinks(deps),
	)

	s.AddTool(
		mcp.NewTool("refresh_backlinks",
			mcp.WithDescription("Regenerate Memory Links for all entries from the last N days."),
			mcp.WithNumber("days", mcp.Description("Number of recent days to refresh (default 30)")),
		),
		mcpRefreshBacklinks(deps),
	)

	s.AddTool(
		mcp.NewTool("read_entry",
			mcp.WithDescription("Read the raw content of a journal entry."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
		),
		mcpReadEntry(deps),
	)

	s.AddTool(
		mcp.NewTool("list_entries",
			mcp.WithDescription("List journal entries, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return (default 10)")),
		),
		mcpListEntries(deps),
	)

	s.AddTool(
		mcp.NewTool("show_themes",
			mcp.WithDescription("Show the themes derived from an entry's freeform text."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
		),
		mcpShowThemes(deps),
	)

	s.AddTool(
		mcp.NewTool("memory_trace",
			mcp.WithDescription("Render the memory-trace report over a trailing window of days."),
			mcp.WithNumber("days", mcp.Description("Window length in days (default 30)")),
		),
		mcpMemoryTrace(deps),
	)

	s.AddTool(
		mcp.NewTool("extract_todos",
			mcp.WithDescription("Extract action items from an entry and save them to the planner."),
			mcp.WithString("date", mcp.Description("Entry date in YYYY-MM-DD format"), mcp.Required()),
		),
		mcpExtractTodos(deps),
	)

	return s
}

// requireDate parses the tool's date argument, rejecting anything that is
// not a real calendar day.
func requireDate(req mcp.CallToolRequest) (time.Time, *mcp.CallToolResult) {
	raw, err := req.RequireString("date")
	if err != nil {
		return time.Time{}, mcpError("date is required (YYYY-MM-DD)")
	}
	date, err := vault.ParseDate(raw)
	if err != nil {
		return time.Time{}, mcpError(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", raw))
	}
	return date, nil
}

func mcpPreviewTemplate(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}
		focus := req.GetString("focus", "")

		tpl, err := deps.Journal.Template(ctx, date, focus)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to build template: %v", err)), nil
		}
		return mcpText(tpl), nil
	}
}

func mcpCreateEntry(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}
		focus := req.GetString("focus", "")

		path, err := deps.Journal.Create(ctx, date, focus)
		if errors.Is(err, vault.ErrExists) {
			return mcpError(fmt.Sprintf("entry for %s already exists", date.Format(vault.DateLayout))), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to create entry: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Created entry %s at %s", date.Format(vault.DateLayout), path)), nil
	}
}

func mcpCompleteEntry(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}

		set, ts, err := deps.Journal.Complete(date)
		if errors.Is(err, vault.ErrNotFound) {
			return mcpError(fmt.Sprintf("no entry found for %s, create one first", date.Format(vault.DateLayout))), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to complete entry: %v", err)), nil
		}

		themesStr := strings.Join(ts.Texts(), ", ")
		if themesStr == "" {
			themesStr = "none detected"
		}
		return mcpText(fmt.Sprintf(
			"Entry %s completed.\nThemes: %s\nTemporal links: %d\nTopic tags: %d",
			date.Format(vault.DateLayout), themesStr, len(set.Temporal), len(set.Tags),
		)), nil
	}
}

func mcpUpdateBacklinks(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}

		set, err := deps.Journal.UpdateBacklinks(date)
		if errors.Is(err, vault.ErrNotFound) {
			return mcpError(fmt.Sprintf("no entry found for %s", date.Format(vault.DateLayout))), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to update backlinks: %v", err)), nil
		}

		if len(set.Temporal) == 0 && len(set.Tags) == 0 {
			return mcpText(fmt.Sprintf("Memory links updated for %s: no connections found", date.Format(vault.DateLayout))), nil
		}
		return mcpText(fmt.Sprintf(
			"Memory links updated for %s: %d temporal + %d topic tags",
			date.Format(vault.DateLayout), len(set.Temporal), len(set.Tags),
		)), nil
	}
}

func mcpRefreshBacklinks(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := req.GetInt("days", 30)
		if days <= 0 {
			days = 30
		}
		if days > 365 {
			days = 365
		}

		res, err := deps.Journal.RefreshRecent(ctx, days)
		if err != nil {
			return mcpError(fmt.Sprintf("refresh failed: %v", err)), nil
		}

		msg := fmt.Sprintf("Refreshed backlinks for %d entries from the last %d days", res.Updated, days)
		if len(res.Failed) > 0 {
			msg += fmt.Sprintf(" (%d entries had errors)", len(res.Failed))
		}
		return mcpText(msg), nil
	}
}

func mcpReadEntry(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}

		content, err := deps.Journal.Read(date)
		if errors.Is(err, vault.ErrNotFound) {
			return mcpError(fmt.Sprintf("no entry found for %s", date.Format(vault.DateLayout))), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to read entry: %v", err)), nil
		}
		return mcpText(content), nil
	}
}

func mcpListEntries(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}

		entries, err := deps.Journal.List()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list entries: %v", err)), nil
		}
		if len(entries) == 0 {
			return mcpText("No entries yet"), nil
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}

		var sb strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&sb, "%s\n", e.Date.Format(vault.DateLayout))
		}
		return mcpText(strings.TrimRight(sb.String(), "\n")), nil
	}
}

func mcpShowThemes(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}

		ts, err := deps.Journal.Themes(date)
		if errors.Is(err, vault.ErrNotFound) {
			return mcpError(fmt.Sprintf("no entry found for %s", date.Format(vault.DateLayout))), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to derive themes: %v", err)), nil
		}
		if ts.Empty() {
			return mcpText(fmt.Sprintf("No recurring themes detected in %s", date.Format(vault.DateLayout))), nil
		}

		type themeResult struct {
			Term  string `json:"term"`
			Count int    `json:"count"`
		}
		results := make([]themeResult, len(ts.Terms))
		for i, term := range ts.Terms {
			results[i] = themeResult{Term: term.Text, Count: term.Count}
		}
		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal themes: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpMemoryTrace(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := req.GetInt("days", 30)
		if days <= 0 {
			days = 30
		}

		report, err := deps.Journal.Trace(ctx, days)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to build trace: %v", err)), nil
		}
		return mcpText(report), nil
	}
}

func mcpExtractTodos(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, errRes := requireDate(req)
		if errRes != nil {
			return errRes, nil
		}

		todos, path, err := deps.Journal.ExtractTodos(ctx, date)
		if errors.Is(err, vault.ErrNotFound) {
			return mcpError(fmt.Sprintf("no entry found for %s", date.Format(vault.DateLayout))), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to extract todos: %v", err)), nil
		}
		if len(todos) == 0 {
			return mcpText(fmt.Sprintf("No action items found in entry for %s", date.Format(vault.DateLayout))), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Extracted %d action items, saved to %s\n", len(todos), path)
		for _, t := range todos {
			fmt.Fprintf(&sb, "- %s\n", t.Text)
		}
		return mcpText(strings.TrimRight(sb.String(), "\n")), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
