package model

// Artist is a globally unique artist name with an identity.
// Rows are created lazily the first time a name is seen and never deleted.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
