package domain

// Role is a named, predefined identity with a fixed id.
// The set is closed and seeded at startup; roles are never created at runtime.
type Role struct {
	ID   int
	Name string
}

var (
	// RoleRegistered is assigned to every new account.
	RoleRegistered = Role{ID: 1, Name: "Registered"}
	// RoleAdmin grants user management on top of self management.
	RoleAdmin = Role{ID: 2, Name: "Admin"}
)

// roleRegistry is built once; lookup by id or name goes through it instead
// of any runtime type discovery.
var roleRegistry = []Role{RoleRegistered, RoleAdmin}

func Roles() []Role {
	out := make([]Role, len(roleRegistry))
	copy(out, roleRegistry)
	return out
}

func RoleFromID(id int) (Role, bool) {
	for _, r := range roleRegistry {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

func RoleFromName(name string) (Role, bool) {
	for _, r := range roleRegistry {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}
