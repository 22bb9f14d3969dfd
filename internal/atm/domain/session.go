package domain

import "time"

// Session is the single currently-authenticated account context. It
// lives in memory only and dies on logout or process end.
type Session struct {
	ID       string
	Username string
	LoginAt  time.Time
}
