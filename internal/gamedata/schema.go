package gamedata

import (
	"encoding/json"
	"strconv"
)

// Hash is a text map hash. Upstream writes it as a JSON number while the
// text map uses its decimal string as key.
type Hash uint64

func (h Hash) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err2 := json.Unmarshal(b, &s); err2 != nil {
			return err
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return err
	}
	*h = Hash(v)
	return nil
}

// Avatar is one record of AvatarExcelConfigData.json.
type Avatar struct {
	ID              int    `json:"Id"`
	UseType         string `json:"UseType"`
	BodyType        string `json:"BodyType"`
	QualityType     string `json:"QualityType"`
	WeaponType      string `json:"WeaponType"`
	NameTextMapHash Hash   `json:"NameTextMapHash"`
	DescTextMapHash Hash   `json:"DescTextMapHash"`
}

// Fetter is one record of FetterInfoExcelConfigData.json.
type Fetter struct {
	AvatarID int `json:"AvatarId"`
	// Upstream spells it "Befor".
	VisionBeforeTextMapHash Hash `json:"AvatarVisionBeforTextMapHash"`
	VisionAfterTextMapHash  Hash `json:"AvatarVisionAfterTextMapHash"`
}

// ManualTextMap is one record of ManualTextMapConfigData.json.
type ManualTextMap struct {
	TextMapID   string `json:"TextMapId"`
	ContentHash Hash   `json:"TextMapContentTextMapHash"`
}

// TextMap maps hash strings to display text.
type TextMap map[string]string
