package domain

// InviteStatus definition invite status
type InviteStatus string

const (
	// InvitePending invite waiting for a response
	InvitePending InviteStatus = "pending"
	// InviteAccepted invite accepted, terminal
	InviteAccepted InviteStatus = "accepted"
	// InviteRejected invite rejected, terminal
	InviteRejected InviteStatus = "rejected"
)

// Invite directed contact request. Status only ever moves
// pending -> accepted or pending -> rejected.
type Invite struct {
	ID        string       `bson:"_id" json:"id"`
	From      string       `bson:"from" json:"from"`
	To        string       `bson:"to" json:"to"`
	Status    InviteStatus `bson:"status" json:"status"`
	CreatedAt int64        `bson:"created_at" json:"created_at"`
}
