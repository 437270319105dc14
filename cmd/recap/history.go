package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/internal/history"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/alkime/recap/pkg/collections"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const previewLen = 60

// HistoryCmd lists results stored by a recap server.
type HistoryCmd struct {
	Limit   int           `flag:"" default:"20" help:"Show at most this many entries"`
	Match   string        `flag:"" optional:"" help:"Only show entries whose file name contains this text"`
	Timeout time.Duration `flag:"" default:"10s" help:"Request timeout"`
}

// Run executes the history command.
func (c *HistoryCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	client := history.NewClient(cfg.ServiceURL, &http.Client{Timeout: c.Timeout})

	entries, err := client.List(ctx)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	entries = matchingEntries(entries, c.Match)

	if len(entries) == 0 {
		fmt.Println("No results yet.")
		return nil
	}

	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.TableBorder).
		Headers("WHEN", "FILE", "SUMMARY")

	for _, e := range entries {
		t.Row(e.Timestamp.Local().Format(time.DateTime), e.Filename, preview(e.Summary))
	}

	fmt.Println(t.Render())

	return nil
}

// matchingEntries keeps entries whose file name contains match,
// ignoring case. An empty match keeps everything.
func matchingEntries(entries []history.Entry, match string) []history.Entry {
	if match == "" {
		return entries
	}

	match = strings.ToLower(match)

	return collections.Filter(entries, func(e history.Entry) bool {
		return strings.Contains(strings.ToLower(e.Filename), match)
	})
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}

	return string(r[:previewLen-1]) + "…"
}
