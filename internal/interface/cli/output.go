package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
)

const rule = "─────────────────────────────────────────────────────────────"

// printWarnings writes each distinct warning once
func printWarnings(w io.Writer, warnings []diag.Warning) {
	seen := make(map[string]bool, len(warnings))
	for _, warning := range warnings {
		line := warning.String()
		if seen[line] {
			continue
		}
		seen[line] = true
		fmt.Fprintf(w, "Warning: %s\n", line)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTaskTable(w io.Writer, tasks []dto.TaskDTO) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	fmt.Fprintf(w, "%-32s %-12s %-8s %-7s %s\n", "ID", "STATUS", "PRIORITY", "BLOCKED", "TITLE")
	fmt.Fprintln(w, rule)
	for _, t := range tasks {
		fmt.Fprintf(w, "%-32s %-12s %-8s %-7s %s\n",
			truncateString(t.ID, 32),
			orDash(t.Status),
			orDash(t.Priority),
			yesNo(t.Blocked),
			truncateString(t.Title, 40),
		)
	}
}

func printTask(w io.Writer, t *dto.TaskDTO) {
	fmt.Fprintf(w, "Task:       %s\n", t.ID)
	fmt.Fprintf(w, "Title:      %s\n", t.Title)
	if t.Status != t.BaseStatus {
		fmt.Fprintf(w, "Status:     %s (stored: %s)\n", orDash(t.Status), orDash(t.BaseStatus))
	} else {
		fmt.Fprintf(w, "Status:     %s\n", orDash(t.Status))
	}
	fmt.Fprintf(w, "Priority:   %s\n", orDash(t.Priority))
	if t.Scheduled != "" {
		fmt.Fprintf(w, "Scheduled:  %s\n", t.Scheduled)
	}
	if t.Due != "" {
		fmt.Fprintf(w, "Due:        %s\n", t.Due)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags:       %s\n", strings.Join(t.Tags, ", "))
	}

	if t.Recurring {
		fmt.Fprintf(w, "Recurrence: %s\n", t.Recurrence)
		state := "open"
		if t.Completed {
			state = "complete"
		}
		fmt.Fprintf(w, "Instance:   %s (%s)\n", t.InstanceKey, state)
		fmt.Fprintf(w, "Next:       %s\n", orDash(t.NextOccurrence))
	}

	fmt.Fprintf(w, "Blocked:    %s\n", yesNo(t.Blocked))
	if len(t.BlockedBy) > 0 {
		fmt.Fprintln(w, "Blocked by:")
		for _, d := range t.BlockedBy {
			fmt.Fprintf(w, "  - %s\n", describeDependency(d))
		}
	}
	if len(t.Blocking) > 0 {
		fmt.Fprintln(w, "Blocking:")
		for _, id := range t.Blocking {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
}

func describeDependency(d dto.DependencyDTO) string {
	rel := d.RelType
	if d.Gap != "" {
		rel += " +" + d.Gap
	}
	switch {
	case d.Dangling:
		return fmt.Sprintf("%s [%s] missing", d.TargetID, rel)
	case d.Blocking:
		return fmt.Sprintf("%s [%s] %s (blocking)", d.TargetID, rel, d.Status)
	default:
		return fmt.Sprintf("%s [%s] %s", d.TargetID, rel, d.Status)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
