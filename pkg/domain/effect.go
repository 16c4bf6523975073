package domain

// EffectTag is the host mutation a fiber represents after reconciliation.
type EffectTag uint8

const (
	EffectNone EffectTag = iota
	EffectPlacement
	EffectUpdate
	EffectDeletion
)

func (t EffectTag) String() string {
	switch t {
	case EffectPlacement:
		return "PLACEMENT"
	case EffectUpdate:
		return "UPDATE"
	case EffectDeletion:
		return "DELETION"
	default:
		return "NONE"
	}
}

// FiberInfo is a read-only view of one committed fiber, in pre-order.
type FiberInfo struct {
	Depth   int       `json:"depth"`
	Type    string    `json:"type,omitempty"`
	Effect  EffectTag `json:"effect"`
	HasHost bool      `json:"has_host"`
	Props   Props     `json:"-"`
}
