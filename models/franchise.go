package models

// FranchiseAdmin is the trimmed user view attached to a franchise. On input
// only the email is set; the store resolves id and name.
type FranchiseAdmin struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type Franchise struct {
	ID     int64            `json:"id"`
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins,omitempty"`
	Stores []Store          `json:"stores"`
}

// Store is a storefront of a franchise. TotalRevenue is computed at read time
// from order item snapshots; it is never persisted. It is nil when the caller
// is not entitled to revenue detail, so a store that earned nothing still
// serializes as 0 rather than dropping the field.
type Store struct {
	ID           int64    `json:"id"`
	FranchiseID  int64    `json:"franchiseId,omitempty"`
	Name         string   `json:"name"`
	TotalRevenue *float64 `json:"totalRevenue,omitempty"`
}
