package model

// PityState 单个卡池的保底状态
// Counter 取值范围 [0, Threshold]，达到合格稀有度时清零
type PityState struct {
	Counter   int32 `json:"counter"`
	Threshold int32 `json:"threshold"`
}

// PlayerPity 玩家全部卡池的保底记录
type PlayerPity struct {
	PlayerID int64                 `json:"player_id"`
	States   map[string]*PityState `json:"states"` // 卡池名 → 保底状态
}

// NewPlayerPity 创建空的玩家保底记录
func NewPlayerPity(playerID int64) *PlayerPity {
	return &PlayerPity{
		PlayerID: playerID,
		States:   make(map[string]*PityState),
	}
}

// StateFor 取出指定卡池的保底状态，不存在时按阈值创建
func (p *PlayerPity) StateFor(packName string, threshold int32) *PityState {
	if p.States == nil {
		p.States = make(map[string]*PityState)
	}
	if st, ok := p.States[packName]; ok {
		// 配置热更新后阈值可能变化，以当前配置为准
		st.Threshold = threshold
		if st.Counter > threshold {
			st.Counter = threshold
		}
		return st
	}
	st := &PityState{Threshold: threshold}
	p.States[packName] = st
	return st
}

// Clone 深拷贝，写回队列持有副本时使用
func (p *PlayerPity) Clone() *PlayerPity {
	clone := NewPlayerPity(p.PlayerID)
	for name, st := range p.States {
		clone.States[name] = &PityState{Counter: st.Counter, Threshold: st.Threshold}
	}
	return clone
}
