package model

// AddressRole distinguishes the two address blocks an employee row carries.
type AddressRole string

const (
	AddressRegistered AddressRole = "registered"
	AddressContact    AddressRole = "contact"
)

// AddressFieldGroup is one complete set of four address columns for one
// role, resolved once per run by column-name keyword matching. A position
// of -1 means the column was not found.
type AddressFieldGroup struct {
	Role        AddressRole
	Province    int
	District    int
	Subdivision int
	PostalCode  int
}

// Resolved reports whether all four positions were located. A group is only
// checkable when complete.
func (g AddressFieldGroup) Resolved() bool {
	return g.Province >= 0 && g.District >= 0 && g.Subdivision >= 0 && g.PostalCode >= 0
}
