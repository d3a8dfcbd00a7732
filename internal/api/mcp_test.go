package api

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quietloop/diarium/internal/backlink"
	"github.com/quietloop/diarium/internal/composer"
	"github.com/quietloop/diarium/internal/journal"
	"github.com/quietloop/diarium/internal/planner"
	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/vault"
)

const workEntry = `## Brain Dump

Work stress is piling up again. The deadline moved and the work keeps
growing. Deadline pressure all day, work work work.
`

const similarEntry = `## Brain Dump

Another day dominated by work stress. The deadline looms and work feels
endless. Work and more work, deadline thoughts, work stress again.
`

type fakeGen struct {
	response string
	err      error
}

func (f *fakeGen) Generate(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := vault.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newTestDeps(t *testing.T, gen composer.Generator, fixed string) (MCPDeps, *vault.Vault) {
	t.Helper()
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("vault.Open: %v", err)
	}

	store, err := planner.Open(":memory:")
	if err != nil {
		t.Fatalf("planner.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var comp *composer.Service
	if gen != nil {
		comp = composer.NewService(gen)
	}

	ext := themes.NewExtractor(8, 2)
	svc := journal.NewService(journal.Options{
		Vault:      v,
		Cache:      themes.NewCache(themes.NewTokenizer(nil), ext),
		Composer:   comp,
		Planner:    store,
		PlannerDir: t.TempDir(),
		Links:      backlink.Config{SynthesisDay: time.Sunday},
		Extractor:  ext,
		Logger:     slog.New(slog.DiscardHandler),
		Now: func() time.Time {
			d, err := vault.ParseDate(fixed)
			if err != nil {
				panic(err)
			}
			return d
		},
	})
	return MCPDeps{Journal: svc}, v
}

func writeEntry(t *testing.T, v *vault.Vault, date, body string) {
	t.Helper()
	if err := v.Write(mustParse(t, date), body); err != nil {
		t.Fatal(err)
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// --- tests ---

func TestMCPTool_CreateEntry(t *testing.T) {
	deps, v := newTestDeps(t, &fakeGen{response: "1. What mattered today?\n2. What felt hard?\n3. What surprised you?"}, "2024-10-04")
	handler := mcpCreateEntry(deps)

	req := makeCallToolRequest("create_entry", map[string]interface{}{"date": "2024-10-04"})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if !strings.Contains(toolText(t, result), "2024-10-04") {
		t.Errorf("response missing date: %s", toolText(t, result))
	}

	content, err := v.Read(mustParse(t, "2024-10-04"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(content, "## Brain Dump") {
		t.Errorf("entry missing template sections:\n%s", content)
	}

	// Second create must fail with a friendly message, not overwrite.
	result, err = handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(toolText(t, result), "already exists") {
		t.Errorf("duplicate create = %q, want already-exists error", toolText(t, result))
	}
}

func TestMCPTool_RejectsBadDate(t *testing.T) {
	deps, _ := newTestDeps(t, nil, "2024-10-04")

	for _, args := range []map[string]interface{}{
		{},
		{"date": "Oct 4 2024"},
		{"date": "2024-13-45"},
	} {
		result, err := mcpReadEntry(deps)(context.Background(), makeCallToolRequest("read_entry", args))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Errorf("args %v accepted, want date error", args)
		}
	}
}

func TestMCPTool_CompleteEntry(t *testing.T) {
	deps, v := newTestDeps(t, nil, "2024-10-05")
	writeEntry(t, v, "2024-10-01", workEntry)
	writeEntry(t, v, "2024-10-02", similarEntry)

	result, err := mcpCompleteEntry(deps)(context.Background(),
		makeCallToolRequest("complete_entry", map[string]interface{}{"date": "2024-10-02"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	text := toolText(t, result)
	if !strings.Contains(text, "work") {
		t.Errorf("completion summary missing themes: %s", text)
	}

	content, err := v.Read(mustParse(t, "2024-10-02"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(content, "## Memory Links") || !strings.Contains(content, "[[2024-10-01]]") {
		t.Errorf("entry missing memory links:\n%s", content)
	}
}

func TestMCPTool_CompleteEntry_Missing(t *testing.T) {
	deps, _ := newTestDeps(t, nil, "2024-10-05")

	result, err := mcpCompleteEntry(deps)(context.Background(),
		makeCallToolRequest("complete_entry", map[string]interface{}{"date": "2024-10-02"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(toolText(t, result), "no entry found") {
		t.Errorf("missing entry = %q, want no-entry error", toolText(t, result))
	}
}

func TestMCPTool_ListEntries(t *testing.T) {
	deps, v := newTestDeps(t, nil, "2024-10-05")

	result, err := mcpListEntries(deps)(context.Background(),
		makeCallToolRequest("list_entries", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toolText(t, result) != "No entries yet" {
		t.Errorf("empty vault = %q", toolText(t, result))
	}

	writeEntry(t, v, "2024-10-01", workEntry)
	writeEntry(t, v, "2024-10-02", similarEntry)

	result, err = mcpListEntries(deps)(context.Background(),
		makeCallToolRequest("list_entries", map[string]interface{}{"limit": float64(1)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := toolText(t, result)
	if !strings.Contains(text, "2024-10-02") || strings.Contains(text, "2024-10-01") {
		t.Errorf("limit 1 should return newest entry only:\n%s", text)
	}
}

func TestMCPTool_ShowThemes(t *testing.T) {
	deps, v := newTestDeps(t, nil, "2024-10-05")
	writeEntry(t, v, "2024-10-01", workEntry)

	result, err := mcpShowThemes(deps)(context.Background(),
		makeCallToolRequest("show_themes", map[string]interface{}{"date": "2024-10-01"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	text := toolText(t, result)
	if !strings.Contains(text, `"term"`) || !strings.Contains(text, "work") {
		t.Errorf("themes JSON missing terms: %s", text)
	}
}

func TestMCPTool_RefreshBacklinks(t *testing.T) {
	deps, v := newTestDeps(t, nil, "2024-10-05")
	writeEntry(t, v, "2024-10-01", workEntry)
	writeEntry(t, v, "2024-10-02", similarEntry)

	result, err := mcpRefreshBacklinks(deps)(context.Background(),
		makeCallToolRequest("refresh_backlinks", map[string]interface{}{"days": float64(7)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if !strings.Contains(toolText(t, result), "2") {
		t.Errorf("expected 2 refreshed entries, got: %s", toolText(t, result))
	}
}

func TestMCPTool_ExtractTodos(t *testing.T) {
	gen := &fakeGen{response: "- Email the landlord\n- Book dentist appointment"}
	deps, v := newTestDeps(t, gen, "2024-10-05")
	writeEntry(t, v, "2024-10-01", workEntry)

	result, err := mcpExtractTodos(deps)(context.Background(),
		makeCallToolRequest("extract_todos", map[string]interface{}{"date": "2024-10-01"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	text := toolText(t, result)
	if !strings.Contains(text, "Email the landlord") || !strings.Contains(text, "dentist") {
		t.Errorf("todo summary missing items: %s", text)
	}
}

func TestMCPTool_MemoryTrace(t *testing.T) {
	deps, v := newTestDeps(t, nil, "2024-10-05")
	writeEntry(t, v, "2024-10-01", workEntry)
	writeEntry(t, v, "2024-10-02", similarEntry)

	result, err := mcpMemoryTrace(deps)(context.Background(),
		makeCallToolRequest("memory_trace", map[string]interface{}{"days": float64(14)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if !strings.Contains(toolText(t, result), "# Memory Trace") {
		t.Errorf("trace missing report header: %s", toolText(t, result))
	}
}
