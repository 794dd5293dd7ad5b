package domain

import (
	"time"

	"realtime_chat_service/pkg/encrypt"
)

// MemberStatus member account state
type MemberStatus int

// state: 0=offline, 1=online, 2=ban, 3=delete
const (
	// MemberStatusOffLine member is offline
	MemberStatusOffLine MemberStatus = iota
	// MemberStatusOnLine member is online
	MemberStatusOnLine
	// MemberStatusBan member is banned
	MemberStatusBan
	// MemberStatusDelete member is deleted
	MemberStatusDelete
)

// Member definition one registered user
type Member struct {
	ID         int64
	MemberID   string
	Name       string
	Email      string
	Mobile     string
	ProfilePic string
	Password   string
	Status     MemberStatus
}

// MemberSession session state kept in redis against the member id
type MemberSession struct {
	Token        string    `json:"Token"`
	MemberID     string    `json:"MemberID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch compare the input with the stored hash
func (m *Member) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(m.Password, inputPwd)
}

// IsExpired check the session already passed its deadline
func (s *MemberSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// MemberQuery join conditions are used to query members
type MemberQuery struct {
	ID       *int64  `db:"id"`
	MemberID *string `db:"member_id"`
	Email    *string `db:"email"`
}
