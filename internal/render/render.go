// Package render turns resolved identities and event sequences into the
// CLI's terminal output. Pure text transformation, no I/O beyond the
// supplied writer.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/event"
	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/github"
)

// Events 按选定的输出模式渲染事件序列。零事件输出明确的
// “无活动”提示，而不是空列表痕迹。
func Events(w io.Writer, account string, events []event.Event, opts *config.Options) error {
	if len(events) == 0 {
		_, err := fmt.Fprintf(w, "No recent activity for GitHub account '%s'.\n", account)
		return err
	}

	if opts.Aggregate {
		return aggregate(w, events)
	}

	switch opts.Output {
	case config.OutputJSON:
		return renderJSON(w, events)
	case config.OutputCSV:
		return renderCSV(w, events)
	case config.OutputTable:
		return renderTable(w, events)
	default:
		return renderVerbose(w, events)
	}
}

func renderVerbose(w io.Writer, events []event.Event) error {
	for _, e := range events {
		phrase := e.Phrase()
		if phrase == "" {
			// 目录之外的类型：退化为类型名 + 仓库
			phrase = fmt.Sprintf("%s in repository %s", e.Type, e.Repo.Name)
		}
		if _, err := fmt.Fprintf(w, "- %s\n", phrase); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, events []event.Event) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCREATED\tREPOSITORY")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Type, e.CreatedAt, e.Repo.Name)
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, events []event.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

func renderCSV(w io.Writer, events []event.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "type", "repo", "created_at"}); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write([]string{e.ID, e.Type, e.Repo.Name, e.CreatedAt}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// aggregate 按事件类型聚合计数，按目录顺序输出，未知类型按字典序排在最后。
func aggregate(w io.Writer, events []event.Event) error {
	counts := make(map[string]int, len(events))
	for _, e := range events {
		counts[e.Type]++
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, td := range event.Catalog() {
		if n, ok := counts[td.Type]; ok {
			fmt.Fprintf(tw, "%s\t%d\n", td.Type, n)
			delete(counts, td.Type)
		}
	}
	unknown := make([]string, 0, len(counts))
	for eventType := range counts {
		unknown = append(unknown, eventType)
	}
	sort.Strings(unknown)
	for _, eventType := range unknown {
		fmt.Fprintf(tw, "%s\t%d\n", eventType, counts[eventType])
	}
	return tw.Flush()
}

// Identity 输出 -u 请求的账户信息（原始身份载荷的缩进 JSON）。
func Identity(w io.Writer, identity *github.Identity) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, identity.Raw, "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n%s\n", identity.AccountName, identity.Kind, buf.String())
	return err
}

// Catalog 渲染 --list 的事件类型目录，与原始 CLI 的点线对齐格式一致。
func Catalog(w io.Writer) error {
	for _, td := range event.Catalog() {
		name := td.Type + " "
		if len(name) < 30 {
			name += strings.Repeat(".", 30-len(name))
		}
		if _, err := fmt.Fprintf(w, "%s.... %s\n", name, td.Description); err != nil {
			return err
		}
	}
	return nil
}
