package chitfund

import (
	"time"
)

const (
	// MaxStep is the deepest step of the ternary capacity model.
	MaxStep = 9
	// RootStep is the conventional step of the member a downline is computed for.
	RootStep = 0
)

// Member is a participant of the referral network.
type Member struct {
	ID       string    `json:"id"`
	JoinedAt time.Time `json:"joinedAt"`

	// ReferrerID is nil for founders and may equal ID for self referrals.
	ReferrerID *string `json:"referrerId,omitempty"`
}

// DownlineEntry is a member discovered below a root.
type DownlineEntry struct {
	ID       string    `json:"id"`
	JoinedAt time.Time `json:"joinedAt"`

	// ReferrerID is the frontier member this entry was listed under.
	ReferrerID string `json:"referrerId,omitempty"`
}
