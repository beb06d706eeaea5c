package ui

import (
	"strings"
	"testing"

	"github.com/lvyanru/coractl/internal/cli/types"
)

func TestRenderDocumentTree_GroupsByTitle(t *testing.T) {
	out := RenderDocumentTree([]types.Document{
		{ID: "1", Title: "Policies", FileName: "leave.pdf", Status: "approved"},
		{ID: "2", Title: "Benefits", Status: "pending", Keywords: []string{"health"}},
		{ID: "3", Title: "Policies", FileName: "travel.pdf", Status: "declined", Remarks: "outdated"},
	})

	for _, want := range []string{"Policies", "Benefits", "leave.pdf", "travel.pdf", "manual entry", "health", "outdated"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Benefits") > strings.Index(out, "Policies") {
		t.Errorf("titles not sorted:\n%s", out)
	}
}

func TestRenderTables(t *testing.T) {
	out := RenderUsers([]types.User{{ID: "7", Name: "Ana", Email: "ana@example.com", Role: "user"}})
	for _, want := range []string{"NAME", "Ana", "ana@example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("users table missing %q:\n%s", want, out)
		}
	}

	long := strings.Repeat("x", 100)
	out = RenderDepartments([]types.Department{{ID: "1", DepartmentName: long}})
	if strings.Contains(out, long) {
		t.Error("long cell was not truncated")
	}

	if got := RenderConversations(nil); !strings.Contains(got, "No conversations found") {
		t.Errorf("empty conversations = %q", got)
	}
}

func TestRenderTopTitles(t *testing.T) {
	out := RenderTopTitles([]types.TitleCount{{Title: "HR", Count: 10}, {Title: "IT", Count: 5}})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if strings.Count(lines[0], "█") != 30 || strings.Count(lines[1], "█") != 15 {
		t.Errorf("bars = %q", lines)
	}
}

func TestRenderSummary(t *testing.T) {
	if got := RenderSummary(1, "user", "users"); !strings.Contains(got, "user") || strings.Contains(got, "users") {
		t.Errorf("singular = %q", got)
	}
	if got := RenderSummary(3, "user", "users"); !strings.Contains(got, "users") {
		t.Errorf("plural = %q", got)
	}
}
