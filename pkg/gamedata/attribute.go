package gamedata

// Attribute categories of the stat taxonomy.
const (
	CategoryBasic     = "basic"
	CategoryAdvanced  = "advanced"
	CategoryElemental = "elemental"
	CategoryHidden    = "hidden"
)

// Attribute is a character stat as shown in game. It is a display label
// only; nothing is computed from it.
type Attribute struct {
	Name     string
	Category string
}
