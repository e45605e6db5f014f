package model

// Address is a postal address owned by exactly one user.
// UserID is the owner reference; it is never serialized into the owner's
// own representation.
type Address struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	CountryCode string `json:"country_code"`
	UserID      int64  `json:"-"`
}

// OwnedBy reports whether the address belongs to the given user.
func (a *Address) OwnedBy(userID int64) bool {
	return a.UserID != 0 && a.UserID == userID
}
