package model

// RolledCard 单个出卡结果
type RolledCard struct {
	Card   *Card `json:"card"`
	Forced bool  `json:"forced"` // 是否保底强制出的
}

// RollResult 一次抽卡请求的有序结果
// 按请求构造，引擎不保留；落入玩家收藏由持久层负责
type RollResult struct {
	PackType    string       `json:"pack_type"`
	Cards       []RolledCard `json:"cards"`
	PityCounter int32        `json:"pity_counter"` // 批次结束后的保底计数，便于观测
}
