// Package legacy reads the JSON roster exported by the old browser character sheet.
package legacy

// Sheet is one character as the browser sheet stored it. Keys are camelCase
// and spell levels are string map keys ("0" for cantrips).
type Sheet struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Class         string              `json:"class"`
	Subclass      string              `json:"subclass"`
	Race          string              `json:"race"`
	Alignment     string              `json:"alignment"`
	Level         int                 `json:"level"`
	AC            int                 `json:"ac"`
	Icon          string              `json:"icon"`
	Portrait      string              `json:"portrait"`
	HP            Resource            `json:"hp"`
	Stats         Stats               `json:"stats"`
	CastingType   string              `json:"castingType"`
	Spells        map[string][]Spell  `json:"spells"`
	SpellSlots    map[string]Resource `json:"spellSlots"`
	Abilities     []Ability           `json:"abilities"`
	Inventory     []Item              `json:"inventory"`
	TempModifiers []TempModifier      `json:"tempModifiers"`
}

// Resource is a current/max pair used for HP and spell slots.
type Resource struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Stats holds the six ability scores.
type Stats struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// Spell is one spellbook entry. Damage may be null.
type Spell struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Icon          string  `json:"icon"`
	Damage        *string `json:"damage"`
	Description   string  `json:"description"`
	School        string  `json:"school"`
	CastingTime   string  `json:"castingTime"`
	Range         string  `json:"range"`
	Components    string  `json:"components"`
	Duration      string  `json:"duration"`
	Concentration bool    `json:"concentration"`
	AttackRoll    bool    `json:"attackRoll"`
	Save          string  `json:"save"`
	Prepared      *bool   `json:"prepared"`
}

// Ability is one class feature or custom ability.
type Ability struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Damage      *string `json:"damage"`
	Description string  `json:"description"`
}

// Item is one backpack entry. Items are matched to the registry by id, then by name.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"equipped"`
}

// TempModifier is one active roll modifier.
type TempModifier struct {
	Value       int    `json:"value"`
	Description string `json:"description"`
}
