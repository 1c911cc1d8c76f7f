package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/admin"
	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/metrics"
	"github.com/alt-project/adminctl/internal/resource"
)

type cacheEntryJSON struct {
	Key        string    `json:"key"`
	Status     string    `json:"status"`
	HasData    bool      `json:"hasData"`
	FetchedAt  time.Time `json:"fetchedAt,omitzero"`
	Generation uint64    `json:"generation"`
	Error      string    `json:"error,omitempty"`
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or invalidate cached collections",
		Long: `Inspect or invalidate the resource cache. The cache lives for one
process, so these commands are most useful inside 'adminctl shell'.`,
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show cache counters and entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counters, err := a.metrics.Stats()
			if err != nil {
				return fmt.Errorf("gathering metrics: %w", err)
			}
			entries := a.engine.Entries()
			if a.jsonMode {
				return a.printer.JSON(map[string]any{
					"types":   counters,
					"entries": entriesJSON(entries),
				})
			}
			renderCounters(a, counters)
			return renderEntries(a, entries)
		},
	}
	addJSONFlag(stats, a)

	invalidate := &cobra.Command{
		Use:   "invalidate <type|all>...",
		Short: "Mark cached collections stale so the next read refetches",
		Long: fmt.Sprintf(`Mark cached collections stale so the next read refetches.

Types: %v`, admin.AllTypes),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := args
			for _, t := range args {
				if t == "all" {
					types = admin.AllTypes
					break
				}
				if !admin.IsType(t) {
					return domain.NewValidationError("type", fmt.Sprintf("unknown resource type %q", t))
				}
			}
			n := a.engine.Invalidate(types...)
			a.printer.Success("Invalidated %d cached entries", n)
			a.printer.PrintHints("cache invalidate")
			return nil
		},
	}

	cmd.AddCommand(stats, invalidate)
	return cmd
}

func renderCounters(a *app, counters []metrics.TypeStats) {
	a.printer.Header("Cache counters")
	table := a.printer.NewTable([]string{"TYPE", "FETCHES", "ERRORS", "HITS", "DISCARDED", "MUTATIONS"})
	for _, s := range counters {
		table.AddRow([]string{
			s.Type,
			strconv.Itoa(int(s.Fetches)),
			strconv.Itoa(int(s.Errors)),
			strconv.Itoa(int(s.Hits)),
			strconv.Itoa(int(s.Discarded)),
			strconv.Itoa(int(s.Mutations)),
		})
	}
	_ = table.Render()
}

func renderEntries(a *app, entries []resource.Entry) error {
	a.printer.Header("Cache entries")
	if len(entries) == 0 {
		a.printer.Print("%s", a.printer.Dim("(empty)"))
		return nil
	}
	now := a.clock.Now()
	table := a.printer.NewTable([]string{"KEY", "STATUS", "AGE", "GEN"})
	for _, e := range entries {
		status := e.Status.String()
		if e.Invalidated {
			status += " (invalidated)"
		}
		age := "-"
		if !e.FetchedAt.IsZero() {
			age = now.Sub(e.FetchedAt).Truncate(time.Second).String()
		}
		table.AddRow([]string{e.Key.String(), a.printer.StatusBadge(status), age, strconv.FormatUint(e.Generation, 10)})
	}
	return table.Render()
}

func entriesJSON(entries []resource.Entry) []cacheEntryJSON {
	out := make([]cacheEntryJSON, len(entries))
	for i, e := range entries {
		out[i] = cacheEntryJSON{
			Key:        e.Key.String(),
			Status:     e.Status.String(),
			HasData:    e.HasData,
			FetchedAt:  e.FetchedAt,
			Generation: e.Generation,
		}
		if e.Err != nil {
			out[i].Error = e.Err.Error()
		}
	}
	return out
}
