package entity

// Role decides which routes a user may call. Admins manage the catalog,
// every order and the user base on top of what a shopper can do.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a role the store issues.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}
