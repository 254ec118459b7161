package gamedata

// Character is a playable character as written to the character database.
type Character struct {
	ID          string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Element     string `json:"element"`
	Weapon      string `json:"weapon"`
}
