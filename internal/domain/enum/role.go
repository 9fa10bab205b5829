package enum

import (
	"database/sql/driver"
)

// Role represents a terminal user's role. Admins may record sales outside
// an open shift; cashiers may not.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

func (r Role) String() string {
	return string(r)
}

// IsAdmin reports whether the role is exempt from the open-shift
// prerequisite.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *Role) Scan(value interface{}) error {
	if value == nil {
		*r = RoleCashier
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	}
	return nil
}
