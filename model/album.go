package model

// Album is a globally unique album name with an identity.
// Rows are created lazily the first time a name is seen and never deleted.
type Album struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
