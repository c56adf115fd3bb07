package model

import (
	"encoding/json"
	"fmt"
)

// Rarity 卡牌稀有度，七档，数值即排序（common 最低）
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
	RarityCosmic

	rarityCount
)

// AllRarities 固定的稀有度遍历顺序 common→cosmic
// 权重累计采样依赖此顺序的稳定性
var AllRarities = [rarityCount]Rarity{
	RarityCommon, RarityUncommon, RarityRare, RarityEpic,
	RarityLegendary, RarityMythic, RarityCosmic,
}

var rarityNames = map[Rarity]string{
	RarityCommon:    "common",
	RarityUncommon:  "uncommon",
	RarityRare:      "rare",
	RarityEpic:      "epic",
	RarityLegendary: "legendary",
	RarityMythic:    "mythic",
	RarityCosmic:    "cosmic",
}

var rarityValues = func() map[string]Rarity {
	m := make(map[string]Rarity, len(rarityNames))
	for r, name := range rarityNames {
		m[name] = r
	}
	return m
}()

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rarity(%d)", uint8(r))
}

// Valid 是否为已定义的稀有度
func (r Rarity) Valid() bool {
	_, ok := rarityNames[r]
	return ok
}

// ParseRarity 按名称解析稀有度
func ParseRarity(name string) (Rarity, error) {
	if r, ok := rarityValues[name]; ok {
		return r, nil
	}
	return RarityCommon, fmt.Errorf("unknown rarity %q", name)
}

// MarshalJSON 稀有度以名称序列化
func (r Rarity) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid rarity %d", uint8(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON 稀有度按名称反序列化
func (r *Rarity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseRarity(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CardType 卡牌类别
type CardType string

const (
	CardTypeCreature CardType = "creature"
	CardTypeSpell    CardType = "spell"
	CardTypeArtifact CardType = "artifact"
	CardTypeSupport  CardType = "support"
)

// Valid 是否为已定义的卡牌类别
func (t CardType) Valid() bool {
	switch t {
	case CardTypeCreature, CardTypeSpell, CardTypeArtifact, CardTypeSupport:
		return true
	}
	return false
}

// Card 卡牌定义，装入目录后不可变
type Card struct {
	ID      int32    `json:"id"`
	Name    string   `json:"name"`
	Rarity  Rarity   `json:"rarity"`
	Type    CardType `json:"type"`
	Cost    int32    `json:"cost"`
	Attack  int32    `json:"attack"`
	Defense int32    `json:"defense"`
	Health  int32    `json:"health"`
	Effects []string `json:"effects,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// HasTag 卡牌是否携带指定标签
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
