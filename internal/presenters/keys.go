package presenters

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyItem is one shortcut row
type KeyItem struct {
	Key    string   `json:"key" yaml:"key"`
	Keys   []string `json:"keys" yaml:"keys"`
	Action string   `json:"action" yaml:"action"`
}

// KeysPresenter lists keyboard shortcuts in binding order
type KeysPresenter struct {
	Items []KeyItem
}

func NewKeysPresenter(bindings []key.Binding) *KeysPresenter {
	p := &KeysPresenter{}
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		p.Items = append(p.Items, KeyItem{Key: h.Key, Keys: b.Keys(), Action: h.Desc})
	}
	return p
}

func (p *KeysPresenter) Title() string     { return "Keyboard Shortcuts" }
func (p *KeysPresenter) Headers() []string { return []string{"KEY", "ACTION"} }
func (p *KeysPresenter) Raw() any          { return p.Items }

func (p *KeysPresenter) Rows() [][]string {
	rows := make([][]string, 0, len(p.Items))
	for _, i := range p.Items {
		rows = append(rows, []string{i.Key, i.Action})
	}
	return rows
}

func (p *KeysPresenter) SortableColumns() []string { return []string{"key", "action"} }

func (p *KeysPresenter) SortBy(column string) bool {
	switch strings.ToLower(column) {
	case "key":
		slices.SortStableFunc(p.Items, func(a, b KeyItem) int { return strings.Compare(a.Key, b.Key) })
	case "action":
		slices.SortStableFunc(p.Items, func(a, b KeyItem) int { return strings.Compare(a.Action, b.Action) })
	default:
		return false
	}
	return true
}

// DefaultSort is empty so bindings keep their help order
func (p *KeysPresenter) DefaultSort() string { return "" }
