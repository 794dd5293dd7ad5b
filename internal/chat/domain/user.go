package domain

// User identity record owned by the member service. The chat service only
// ever reads it.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	ProfilePic string `json:"profile_pic,omitempty"`
}
