package mimeapps

import (
	"slices"
	"strings"
)

// HandlerList is an ordered list of desktop file ids without duplicates.
type HandlerList []string

// Contains reports whether id is in the list.
func (l HandlerList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// String joins the list the way mimeapps.list stores it.
func (l HandlerList) String() string {
	if len(l) == 0 {
		return ""
	}

	return strings.Join(l, ";") + ";"
}

func (l HandlerList) add(id string) HandlerList {
	if id == "" || l.Contains(id) {
		return l
	}

	return append(l, id)
}

func (l HandlerList) remove(id string) HandlerList {
	return slices.DeleteFunc(l, func(h string) bool { return h == id })
}
