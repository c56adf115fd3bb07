package model

// Collection 玩家持有的卡牌集合，卡牌 ID → 持有份数
type Collection map[int32]int32

// Count 持有份数，未持有返回 0
func (c Collection) Count(cardID int32) int32 {
	return c[cardID]
}

// Add 增加持有份数
func (c Collection) Add(cardID int32, n int32) {
	c[cardID] += n
}

// Deck 玩家组装的卡组，按卡牌 ID 有序排列
type Deck struct {
	Cards []int32 `json:"cards"`
}

// Size 卡组张数
func (d *Deck) Size() int {
	return len(d.Cards)
}

// Copies 卡组内每张卡的份数统计
func (d *Deck) Copies() map[int32]int32 {
	copies := make(map[int32]int32, len(d.Cards))
	for _, id := range d.Cards {
		copies[id]++
	}
	return copies
}
