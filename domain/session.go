package domain

// Session binds an opaque bearer token to a user. Sessions do not expire;
// they live until revoked.
type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}
