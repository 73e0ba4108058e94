package domain

// User is the directory record the auth service resolves for a login, ID,
// or group. GroupID is nil for users who have not joined a group yet; such
// users cannot own or see daily tasks.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Login    string `json:"login"`
	GroupID  *int64 `json:"groupId"`
}

// InGroup reports whether the user belongs to a group.
func (u *User) InGroup() bool {
	return u.GroupID != nil
}
