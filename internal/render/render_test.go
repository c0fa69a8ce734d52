package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/event"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/github"
)

func sampleEvents() []event.Event {
	return []event.Event{
		{
			ID:        "2",
			Type:      "PushEvent",
			Repo:      event.Repo{Name: "acme/widgets"},
			Payload:   json.RawMessage(`{"size":2}`),
			CreatedAt: "2025-02-02T13:28:00Z",
		},
		{
			ID:        "1",
			Type:      "WatchEvent",
			Repo:      event.Repo{Name: "acme/widgets"},
			CreatedAt: "2025-02-01T09:00:00Z",
		},
	}
}

func TestEventsVerbose(t *testing.T) {
	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputVerbose}
	if err := Events(&buf, "acme", sampleEvents(), opts); err != nil {
		t.Fatalf("render error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "- Pushed 2 commits to repository acme/widgets") {
		t.Fatalf("missing push phrase:\n%s", out)
	}
	if !strings.Contains(out, "- Starred repository acme/widgets") {
		t.Fatalf("missing watch phrase:\n%s", out)
	}
}

func TestEventsVerboseKeepsRemoteOrder(t *testing.T) {
	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputVerbose}
	if err := Events(&buf, "acme", sampleEvents(), opts); err != nil {
		t.Fatalf("render error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "Pushed") > strings.Index(out, "Starred") {
		t.Fatalf("events must keep newest-first order:\n%s", out)
	}
}

func TestEventsEmptyFeed(t *testing.T) {
	for _, mode := range []string{config.OutputVerbose, config.OutputTable, config.OutputJSON, config.OutputCSV} {
		var buf bytes.Buffer
		opts := &config.Options{Output: mode}
		if err := Events(&buf, "ghost", []event.Event{}, opts); err != nil {
			t.Fatalf("render error (%s): %v", mode, err)
		}
		if !strings.Contains(buf.String(), "No recent activity for GitHub account 'ghost'.") {
			t.Fatalf("empty feed must render an explicit indication (%s):\n%s", mode, buf.String())
		}
	}
}

func TestEventsJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputJSON}
	if err := Events(&buf, "acme", sampleEvents(), opts); err != nil {
		t.Fatalf("render error: %v", err)
	}

	var decoded []event.Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output should round-trip: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ID != "2" {
		t.Fatalf("unexpected decoded events: %+v", decoded)
	}
}

func TestEventsCSV(t *testing.T) {
	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputCSV}
	if err := Events(&buf, "acme", sampleEvents(), opts); err != nil {
		t.Fatalf("render error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "id,type,repo,created_at" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2,PushEvent,acme/widgets,") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
}

func TestEventsTable(t *testing.T) {
	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputTable}
	if err := Events(&buf, "acme", sampleEvents(), opts); err != nil {
		t.Fatalf("render error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "TYPE") || !strings.Contains(out, "REPOSITORY") {
		t.Fatalf("table header missing:\n%s", out)
	}
	if !strings.Contains(out, "PushEvent") || !strings.Contains(out, "2025-02-02T13:28:00Z") {
		t.Fatalf("table rows missing:\n%s", out)
	}
}

func TestEventsAggregate(t *testing.T) {
	events := append(sampleEvents(), event.Event{Type: "PushEvent", Repo: event.Repo{Name: "acme/cli"}})

	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputVerbose, Aggregate: true}
	if err := Events(&buf, "acme", events, opts); err != nil {
		t.Fatalf("render error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "PushEvent") || !strings.Contains(out, "2") {
		t.Fatalf("aggregate output should count by type:\n%s", out)
	}
	pushIdx := strings.Index(out, "PushEvent")
	watchIdx := strings.Index(out, "WatchEvent")
	if pushIdx < 0 || watchIdx < 0 || pushIdx > watchIdx {
		t.Fatalf("aggregate should follow catalog order:\n%s", out)
	}
}

func TestEventsAggregateUnknownTypesSorted(t *testing.T) {
	events := []event.Event{
		{Type: "ZetaEvent", Repo: event.Repo{Name: "acme/widgets"}},
		{Type: "AlphaEvent", Repo: event.Repo{Name: "acme/widgets"}},
		{Type: "PushEvent", Repo: event.Repo{Name: "acme/widgets"}},
	}

	var buf bytes.Buffer
	opts := &config.Options{Output: config.OutputVerbose, Aggregate: true}
	if err := Events(&buf, "acme", events, opts); err != nil {
		t.Fatalf("render error: %v", err)
	}

	out := buf.String()
	pushIdx := strings.Index(out, "PushEvent")
	alphaIdx := strings.Index(out, "AlphaEvent")
	zetaIdx := strings.Index(out, "ZetaEvent")
	if pushIdx < 0 || alphaIdx < 0 || zetaIdx < 0 {
		t.Fatalf("aggregate output missing rows:\n%s", out)
	}
	if pushIdx > alphaIdx || alphaIdx > zetaIdx {
		t.Fatalf("unknown types should follow the catalog in sorted order:\n%s", out)
	}
}

func TestIdentity(t *testing.T) {
	id := &github.Identity{
		Kind:        github.KindOrganization,
		AccountName: "acme",
		Raw:         json.RawMessage(`{"login":"acme","url":"https://api.github.com/orgs/acme"}`),
	}

	var buf bytes.Buffer
	if err := Identity(&buf, id); err != nil {
		t.Fatalf("render error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "acme (Organization)") {
		t.Fatalf("identity header missing:\n%s", out)
	}
	if !strings.Contains(out, `"login": "acme"`) {
		t.Fatalf("identity payload should be indented JSON:\n%s", out)
	}
}

func TestCatalogListing(t *testing.T) {
	var buf bytes.Buffer
	if err := Catalog(&buf); err != nil {
		t.Fatalf("render error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 17 {
		t.Fatalf("expected 17 catalog lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "CommitCommentEvent ") || !strings.Contains(lines[0], ".... A commit comment is created.") {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
}
