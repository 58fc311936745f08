package model

import "time"

/*

User is a member of the troop.

Id: primary key, document id in the users collection
Username: unique handle used for tagging and sign in
FullName: display name
AvatarUrl: download reference of the member's avatar
IsOnline: presence flag, maintained by the presence tracker for the viewer's
	own record only
LastSeen: server-assigned timestamp of the last presence transition
IsAdmin/IsBlocked/IsMuted: moderation flags toggled from the admin dashboard
Points: reward balance, never negative
Following: ids of the users this member follows, mutated via atomic
	set-add/set-remove

*/
type User struct {
	Id          string    `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email,omitempty"`
	AvatarUrl   string    `json:"avatarUrl,omitempty"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Team        string    `json:"team,omitempty"`
	IsAdmin     bool      `json:"isAdmin,omitempty"`
	IsOnline    bool      `json:"isOnline,omitempty"`
	IsBlocked   bool      `json:"isBlocked,omitempty"`
	IsMuted     bool      `json:"isMuted,omitempty"`
	Points      int       `json:"points,omitempty"`
	LastSeen    time.Time `json:"lastSeen,omitempty"`
	Following   []string  `json:"following,omitempty"`
}

// IsFollowing returns true iff the user follows the target id.
func (u *User) IsFollowing(targetId string) bool {
	for _, id := range u.Following {
		if id == targetId {
			return true
		}
	}
	return false
}
