package formatting

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"driftwood/internal/component"
	"driftwood/internal/scheduler"
)

// RenderRun renders the per-entity outcomes of a reconciliation run as a
// table for terminal output.
func RenderRun(run *scheduler.Run) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Priority", "Artifact", "State", "Actions", "Error"})

	for _, result := range run.Results {
		t.AppendRow(table.Row{
			result.Priority,
			result.Path,
			result.State.String(),
			actionsFor(result),
			errorFor(result),
		})
	}

	return t.Render()
}

// RenderComponents renders the component dependency graph as a table.
func RenderComponents(components []component.Component) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Component", "Requires"})

	for _, c := range components {
		t.AppendRow(table.Row{c.Name, strings.Join(c.Requires, ", ")})
	}

	return t.Render()
}

func actionsFor(result scheduler.Result) string {
	var actions []string
	if result.Created {
		actions = append(actions, "created")
	}
	if result.Repaired {
		actions = append(actions, "repaired")
	}
	if result.OptedOut {
		actions = append(actions, "opted out")
	}
	if len(actions) == 0 {
		return "-"
	}
	return strings.Join(actions, ", ")
}

func errorFor(result scheduler.Result) string {
	if result.Err == nil {
		return ""
	}
	return result.Err.Error()
}
