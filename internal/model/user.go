// Package model defines domain entities for the application.
package model

import "time"

// User represents an account that owns zero or more addresses.
// Password always holds a digest, never the plaintext.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
	Addresses []Address `json:"addresses"`
}

// AdoptAddresses points every address in the list at the user.
// Called on creation before the addresses are persisted.
func (u *User) AdoptAddresses() {
	for i := range u.Addresses {
		u.Addresses[i].UserID = u.ID
	}
}

// Clone returns a deep copy of the user, including its address list.
func (u *User) Clone() *User {
	c := *u
	if u.Addresses != nil {
		c.Addresses = make([]Address, len(u.Addresses))
		copy(c.Addresses, u.Addresses)
	}
	return &c
}

// UserPatch holds the user columns a partial update may overwrite.
// Nil fields are left as stored.
type UserPatch struct {
	Email    *string
	Name     *string
	Password *string
}

// Apply overwrites the fields of u that are set in p.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}
