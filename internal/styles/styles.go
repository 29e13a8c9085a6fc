// Package styles resolves presentation metadata (color, icon) for
// category names. The mapping is purely cosmetic, lives only on the
// client and is injected into the view layer so it can be swapped or
// tested independently of the domain model.
package styles

import "hash/fnv"

// Style is the presentation token attached to a category when it is
// rendered. Icon names follow the asset set shipped under web/static.
type Style struct {
	Color string
	Icon  string
}

// Resolver maps a category name to its display style. Implementations
// must return a usable style for every name, never an error.
type Resolver interface {
	Resolve(name string) Style
}

// DefaultStyle is the last-resort style, used only when no name is
// available at all.
var DefaultStyle = Style{Color: "#f3f4f6", Icon: "tag"}

var builtin = map[string]Style{
	"Food":      {Color: "#dcfce7", Icon: "utensils"},
	"Travel":    {Color: "#dbeafe", Icon: "plane"},
	"Bills":     {Color: "#fef3c7", Icon: "receipt"},
	"Shopping":  {Color: "#fce7f3", Icon: "shopping-bag"},
	"Transport": {Color: "#f3e8ff", Icon: "bus"},
	"Education": {Color: "#fef3c7", Icon: "book"},
	"Others":    {Color: "#fee2e2", Icon: "layers"},
}

// ChartPalette provides colors for user-created categories and for
// distribution slices without a dedicated entry. Assignment is stable
// per name.
var ChartPalette = []string{
	"#fce7f3", "#dbeafe", "#fef3c7", "#dcfce7", "#f3e8ff",
	"#fee2e2", "#e0e7ff", "#fef7cd", "#f0fdf4",
}

var assignedIcons = []string{"wallet", "coins", "cart", "gift", "piggy-bank"}

// Static resolves styles from a fixed name-keyed table. Names missing
// from the table get a deterministic color/icon pair derived from the
// name, so user-created categories are visually distinct rather than all
// gray.
type Static struct {
	table    map[string]Style
	fallback Style
}

// NewStatic builds a resolver from table with the given fallback for
// empty names. The table is not copied; callers hand over ownership.
func NewStatic(table map[string]Style, fallback Style) *Static {
	return &Static{table: table, fallback: fallback}
}

// Default returns the resolver with the built-in category table.
func Default() *Static {
	return NewStatic(builtin, DefaultStyle)
}

func (s *Static) Resolve(name string) Style {
	if name == "" {
		return s.fallback
	}
	if st, ok := s.table[name]; ok {
		return st
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	return Style{
		Color: ChartPalette[sum%uint32(len(ChartPalette))],
		Icon:  assignedIcons[(sum/7)%uint32(len(assignedIcons))],
	}
}

// IsDefault reports whether st is the resolver's fallback style.
func (s *Static) IsDefault(st Style) bool {
	return st == s.fallback
}
