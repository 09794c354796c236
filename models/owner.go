package models

// Owner is the single principal a match belongs to. It is either an
// AccountOwner or a GuestOwner; the unexported method keeps the set closed.
type Owner interface {
	OwnerID() string
	isOwner()
}

// AccountOwner is a registered account.
type AccountOwner struct {
	AccountID string
}

// GuestOwner is an anonymous, time-boxed guest session.
type GuestOwner struct {
	SessionID string
}

func (o AccountOwner) OwnerID() string { return o.AccountID }
func (o GuestOwner) OwnerID() string   { return o.SessionID }

func (AccountOwner) isOwner() {}
func (GuestOwner) isOwner()   {}

// Owner rebuilds the owner from the persisted columns. It returns nil only for
// rows that violate the single-owner constraint.
func (m *Match) Owner() Owner {
	switch {
	case m.OwnerAccountID != nil && m.OwnerGuestSessionID == nil:
		return AccountOwner{AccountID: *m.OwnerAccountID}
	case m.OwnerGuestSessionID != nil && m.OwnerAccountID == nil:
		return GuestOwner{SessionID: *m.OwnerGuestSessionID}
	}
	return nil
}

// SetOwner replaces the owner, clearing whichever column the other variant uses.
func (m *Match) SetOwner(o Owner) {
	m.OwnerAccountID, m.OwnerGuestSessionID = nil, nil
	switch o := o.(type) {
	case AccountOwner:
		id := o.AccountID
		m.OwnerAccountID = &id
	case GuestOwner:
		id := o.SessionID
		m.OwnerGuestSessionID = &id
	}
}

// OwnedBy reports whether o is the match's owner: same variant and same id.
func (m *Match) OwnedBy(o Owner) bool {
	switch o := o.(type) {
	case AccountOwner:
		return m.OwnerAccountID != nil && *m.OwnerAccountID == o.AccountID
	case GuestOwner:
		return m.OwnerGuestSessionID != nil && *m.OwnerGuestSessionID == o.SessionID
	}
	return false
}
