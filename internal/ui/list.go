package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/campuskit/campusctl/internal/screens"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = entityItem{}
)

// menuItem wraps a screen spec for the home menu.
type menuItem struct {
	spec screens.Spec
}

func (i menuItem) FilterValue() string { return i.spec.Entity.Title }
func (i menuItem) Title() string       { return i.spec.Entity.Title }
func (i menuItem) Description() string {
	return fmt.Sprintf("manage %s", i.spec.Entity.Name)
}

// entityItem wraps a normalized record for an entity list.
type entityItem struct {
	item screens.Item
}

func (i entityItem) FilterValue() string { return i.item.Title }
func (i entityItem) Title() string       { return i.item.Title }
func (i entityItem) Description() string {
	badge := "inactive"
	if i.item.Active {
		badge = "active"
	}
	return fmt.Sprintf("#%s • %s", i.item.ID, badge)
}
