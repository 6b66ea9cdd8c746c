package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/resound-fm/resound/internal/formatter"
)

var _ list.Item = rowItem{}

// rowItem wraps [formatter.Row] to implement [list.Item].
type rowItem struct {
	row formatter.Row
}

func (i rowItem) FilterValue() string { return i.row.Handle }

func (i rowItem) Title() string {
	title := "@" + i.row.Handle
	if i.row.IsActor {
		title += " (you)"
	}
	return title
}

func (i rowItem) Description() string {
	desc := i.row.Name
	if i.row.Rank > 0 {
		desc = fmt.Sprintf("#%d • %s • %s", i.row.Rank, i.row.Name, i.row.Amount)
	}
	return desc
}
