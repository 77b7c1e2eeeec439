package api

// PageItem is one row of the paginated catalog list: a creature name and
// the URL of its detail resource.
type PageItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NamedResource is the upstream's generic {name, url} reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StatSlot is one base-stat entry (hp, attack, defense, ...).
type StatSlot struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// TypeSlot is one type assignment with its display slot.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is one ability assignment.
type AbilitySlot struct {
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
	Ability  NamedResource `json:"ability"`
}

// MoveSlot is one learnable move.
type MoveSlot struct {
	Move NamedResource `json:"move"`
}

// Sprites holds the default sprite image URLs.
type Sprites struct {
	FrontDefault string `json:"front_default"`
	BackDefault  string `json:"back_default"`
	FrontShiny   string `json:"front_shiny"`
	BackShiny    string `json:"back_shiny"`
}

// Pokemon is the detail payload for a single creature. Fields mirror the
// upstream JSON and are passed through unmodified.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Stats          []StatSlot    `json:"stats"`
	Types          []TypeSlot    `json:"types"`
	Abilities      []AbilitySlot `json:"abilities"`
	Moves          []MoveSlot    `json:"moves"`
	Sprites        Sprites       `json:"sprites"`
}

// listPage is the envelope of GET /pokemon?limit=N.
type listPage struct {
	Count   int        `json:"count"`
	Results []PageItem `json:"results"`
}

// typePage is the envelope of GET /type.
type typePage struct {
	Count   int             `json:"count"`
	Results []NamedResource `json:"results"`
}
