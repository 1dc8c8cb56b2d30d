package client

// ListEntry is a reference to a catalog entry as returned by the list endpoint.
// It carries no numeric id; use ExtractID on URL.
type ListEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage is one page of the list endpoint.
type ListPage struct {
	// Count is the total number of entries across all pages
	Count int `json:"count"`

	// Next is the URL of the following page, nil on the last page
	Next *string `json:"next"`

	// Previous is the URL of the preceding page, nil on the first page
	Previous *string `json:"previous"`

	Results []ListEntry `json:"results"`
}

// NamedResource is a name plus the canonical URL of a related resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TypeSlot is one entry of an item's type list.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// StatValue is one base stat of an item.
type StatValue struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// AbilitySlot is one entry of an item's ability list.
type AbilitySlot struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  NamedResource `json:"ability"`
}

// Sprites holds the sprite URLs embedded in a detail response.
type Sprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
	BackDefault  *string `json:"back_default"`
}

// ItemDetail is the full record returned by the detail endpoints.
type ItemDetail struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// Height in decimeters
	Height int `json:"height"`

	// Weight in hectograms
	Weight int `json:"weight"`

	BaseExperience int           `json:"base_experience"`
	Types          []TypeSlot    `json:"types"`
	Stats          []StatValue   `json:"stats"`
	Abilities      []AbilitySlot `json:"abilities"`
	Sprites        Sprites       `json:"sprites"`
}

// PrimaryType returns the name of the first type slot.
// Details returned by Client always have at least one type.
func (d *ItemDetail) PrimaryType() string {
	return d.Types[0].Type.Name
}

// TypeNames returns the type names in slot order.
func (d *ItemDetail) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Type.Name)
	}
	return names
}
