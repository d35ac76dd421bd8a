package outreach

import "time"

// Session is a stored Shopify app session. Rows are written by the
// Shopify OAuth callback, which runs in the app's auth frontend, not
// in this service; here sessions are only read to call the Admin API
// on behalf of the shop and deleted to honor data erasure requests.
type Session struct {
	ID          string
	Shop        string
	State       string
	IsOnline    bool
	Scope       string
	AccessToken string
	Expires     *time.Time
	UserID      *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the session has an expiry in the past
func (s *Session) Expired(now time.Time) bool {
	return s.Expires != nil && s.Expires.Before(now)
}
