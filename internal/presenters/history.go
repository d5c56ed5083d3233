package presenters

import (
	"sort"
	"strings"

	"github.com/ygelfand/vidctl/internal/history"
)

const playedAtLayout = "2006-01-02 15:04"

type HistoryPresenter struct {
	Items []history.Entry
	// Ranked keeps the incoming order, such as fuzzy match rank
	Ranked bool
}

func (p *HistoryPresenter) Title() string {
	return "Recently Played"
}

func (p *HistoryPresenter) Headers() []string {
	return []string{"PLAYED", "TITLE", "SOURCE", "POSTER"}
}

func (p *HistoryPresenter) Rows() [][]string {
	rows := make([][]string, 0, len(p.Items))
	for _, e := range p.Items {
		poster := "-"
		if e.Poster != "" {
			poster = e.Poster
		}
		rows = append(rows, []string{e.PlayedAt.Local().Format(playedAtLayout), e.Title, e.URL, poster})
	}
	return rows
}

func (p *HistoryPresenter) Raw() any {
	return p.Items
}

func (p *HistoryPresenter) SortableColumns() []string {
	return []string{"played", "title", "source"}
}

func (p *HistoryPresenter) SortBy(column string) bool {
	switch strings.ToLower(column) {
	case "played", "date":
		sort.SliceStable(p.Items, func(i, j int) bool { return p.Items[i].PlayedAt.After(p.Items[j].PlayedAt) })
	case "title":
		sort.SliceStable(p.Items, func(i, j int) bool {
			return strings.ToLower(p.Items[i].Title) < strings.ToLower(p.Items[j].Title)
		})
	case "source", "url":
		sort.SliceStable(p.Items, func(i, j int) bool { return p.Items[i].URL < p.Items[j].URL })
	default:
		return false
	}
	return true
}

func (p *HistoryPresenter) DefaultSort() string {
	if p.Ranked {
		return ""
	}
	return "played"
}
