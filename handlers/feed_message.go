package handlers

type FeedMessageType string

const (
	FeedMessagePost   FeedMessageType = "post"
	FeedMessageRoll   FeedMessageType = "roll"
	FeedMessageMember FeedMessageType = "member"
)

// FeedMessage is pushed to every feed client of a campaign
type FeedMessage struct {
	Type FeedMessageType `json:"type"`
	Data any             `json:"data"`
}

// MemberChange is the data of FeedMessageMember messages
type MemberChange struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"` // empty when the user left or was removed
	Owner  bool   `json:"owner,omitempty"`
}
