package altctl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"altd/pkg/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// stateColor colours a model state for terminal output.
func stateColor(state string) string {
	switch {
	case state == "loaded":
		return green(state)
	case state == "loading", state == "draining":
		return yellow(state)
	case strings.HasPrefix(state, "failed"):
		return red(state)
	default:
		return faint(state)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printModels(w io.Writer, models []types.Model) {
	for _, m := range models {
		mark := " "
		if m.Recommended {
			mark = green("*")
		}
		fmt.Fprintf(w, "%s %-10s %-10s %-12s %s\n", mark, bold(m.ID), m.Name, m.Backend, faint(m.Description))
	}
}

func printModelStatus(w io.Writer, st types.ModelStatusResponse) {
	fmt.Fprintf(w, "%s: %s (download %s, cache %s)\n", bold(st.Model), stateColor(st.Status), st.DownloadSize, st.CacheLocation)
}

func printStatus(w io.Writer, st types.StatusResponse) {
	fmt.Fprintf(w, "state %s  default %s  uptime %ds  captions %d  loads %d  failures %d\n",
		stateColor(st.State), bold(st.DefaultModel), st.UptimeSeconds, st.CaptionsTotal, st.LoadsTotal, st.LoadFailuresTotal)
	for _, m := range st.Models {
		line := fmt.Sprintf("  %-10s %-10s %s", m.ModelID, stateColor(m.State), faint(m.Backend))
		if m.State == "loaded" {
			line += fmt.Sprintf("  queue %d/%d inflight %d", m.QueueLen, m.MaxQueueDepth, m.Inflight)
		}
		if m.Error != "" {
			line += "  " + red(m.Error)
		}
		fmt.Fprintln(w, line)
	}
}

func printDescribe(w io.Writer, path string, d types.DescribeResponse) {
	suffix := ""
	if d.Cached {
		suffix = faint(" (cached)")
	}
	fmt.Fprintf(w, "%s [%s]%s\n  %s\n", bold(path), d.ModelUsed, suffix, d.AltText)
}
