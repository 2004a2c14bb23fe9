package chathub

// DisplayPolicy transforms the true tracked-user count into the number shown
// to clients. The transform is cosmetic only; pairing always runs on the true
// count.
type DisplayPolicy func(online int) int

// TrueCount shows the count as-is.
func TrueCount(online int) int { return online }

// InflatedCount reports max(n, floor(n*1.5)), matching the display behavior
// the product shipped with. Whether the inflation stays is a product call;
// swapping the policy does not touch pairing.
func InflatedCount(online int) int {
	if inflated := online * 3 / 2; inflated > online {
		return inflated
	}
	return online
}

// Presence derives the aggregate online-user figure broadcast to every
// connection whenever the tracked-session count changes.
type Presence struct {
	policy DisplayPolicy
}

// NewPresence creates a Presence with the given policy, defaulting to
// InflatedCount when nil.
func NewPresence(policy DisplayPolicy) *Presence {
	if policy == nil {
		policy = InflatedCount
	}
	return &Presence{policy: policy}
}

// Display applies the display policy to the true count.
func (p *Presence) Display(online int) int {
	return p.policy(online)
}
