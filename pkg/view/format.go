package view

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sternrassler/pokedex-client/pkg/client"
)

// DefaultIDDigits is the zero-padding width used by FormatID.
const DefaultIDDigits = 3

// User-facing messages.
const (
	MsgLoadingList   = "Loading more Pokémon..."
	MsgLoadingDetail = "Loading Pokémon details..."
	MsgListError     = "Failed to load Pokémon data. Please try again."
	MsgDetailError   = "Failed to load Pokémon details. Please try again."
	MsgNotFound      = "Pokémon not found."
)

// FormatID formats id as "#" followed by at least digits digits.
func FormatID(id, digits int) string {
	if digits <= 0 {
		digits = DefaultIDDigits
	}
	return fmt.Sprintf("#%0*d", digits, id)
}

// FormatHeight converts decimeters to "x.y m".
func FormatHeight(decimeters int) string {
	return fmt.Sprintf("%.1f m", float64(decimeters)/10)
}

// FormatWeight converts hectograms to "x.y kg".
func FormatWeight(hectograms int) string {
	return fmt.Sprintf("%.1f kg", float64(hectograms)/10)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DisplayName turns "mr-mime" into "Mr Mime".
func DisplayName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = Capitalize(p)
	}
	return strings.Join(parts, " ")
}

// FallbackTypeColor is used for unknown types.
const FallbackTypeColor = "#6B7280"

var typeColors = map[string]string{
	"normal":   "#6B7280",
	"fire":     "#EF4444",
	"water":    "#3B82F6",
	"electric": "#F59E0B",
	"grass":    "#10B981",
	"ice":      "#06B6D4",
	"fighting": "#B91C1C",
	"poison":   "#8B5CF6",
	"ground":   "#D97706",
	"flying":   "#6366F1",
	"psychic":  "#EC4899",
	"bug":      "#84CC16",
	"rock":     "#92400E",
	"ghost":    "#7C3AED",
	"dragon":   "#4F46E5",
	"dark":     "#374151",
	"steel":    "#9CA3AF",
	"fairy":    "#F472B6",
}

// TypeColor returns the badge color of a type as a hex string.
func TypeColor(typeName string) string {
	if c, ok := typeColors[typeName]; ok {
		return c
	}
	return FallbackTypeColor
}

// StatLabels are the base stat labels in API order.
var StatLabels = []string{"HP", "Attack", "Defense", "Sp. Attack", "Sp. Defense", "Speed"}

// StatPercent returns the bar width for a base stat, capped at 100.
func StatPercent(value int) float64 {
	p := float64(value) / 2
	if p > 100 {
		return 100
	}
	return p
}

// StatRow is one labelled base stat.
type StatRow struct {
	Label   string
	Value   int
	Percent float64
}

// StatRows pairs StatLabels with the detail's stats by position. Missing
// stats read as 0.
func StatRows(d *client.ItemDetail) []StatRow {
	rows := make([]StatRow, 0, len(StatLabels))
	for i, label := range StatLabels {
		v := 0
		if d != nil && i < len(d.Stats) {
			v = d.Stats[i].BaseStat
		}
		rows = append(rows, StatRow{Label: label, Value: v, Percent: StatPercent(v)})
	}
	return rows
}

// PageInfo renders the page-controls footer.
func PageInfo(page, totalPages, shown int) string {
	return fmt.Sprintf("Page %d of %d (%d Pokémon shown)", page, totalPages, shown)
}

// LoadedInfo renders the load-more footer.
func LoadedInfo(loaded int, hasMore bool) string {
	s := fmt.Sprintf("%d Pokémon loaded", loaded)
	if hasMore {
		s += " • More available."
	}
	return s
}

// LoadMoreLabel is the label of the load-more action.
func LoadMoreLabel(fetchingMore, hasMore bool) string {
	switch {
	case fetchingMore:
		return "Loading..."
	case hasMore:
		return "Load More Pokémon"
	default:
		return "No More Pokémon"
	}
}
