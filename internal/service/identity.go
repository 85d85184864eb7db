package service

// Identity is the caller identity resolved by the request-handling boundary.
// The zero value means anonymous.
type Identity struct {
	UserID string
	Name   string
}

func (id Identity) Anonymous() bool {
	return id.UserID == ""
}
