package model

// Wire shapes of the awards backend.

type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Rank          string `json:"rank,omitempty"`
}

type SaveAwardsRequest struct {
	WeekDate string  `json:"week_date"`
	Awards   []Award `json:"awards"`
}
