package domain

// Permission is a named capability from a closed enumeration with fixed
// integer ids. Permissions are granted to roles, never to users directly.
type Permission struct {
	ID   int
	Name string
}

var (
	PermissionManageMyself = Permission{ID: 1, Name: "ManageMyself"}
	PermissionManageUsers  = Permission{ID: 2, Name: "ManageUsers"}
)

var permissionRegistry = []Permission{
	PermissionManageMyself,
	PermissionManageUsers,
}

func Permissions() []Permission {
	out := make([]Permission, len(permissionRegistry))
	copy(out, permissionRegistry)
	return out
}

func PermissionFromID(id int) (Permission, bool) {
	for _, p := range permissionRegistry {
		if p.ID == id {
			return p, true
		}
	}
	return Permission{}, false
}

func PermissionFromName(name string) (Permission, bool) {
	for _, p := range permissionRegistry {
		if p.Name == name {
			return p, true
		}
	}
	return Permission{}, false
}

// DefaultGrants is the seeded role→permission relation.
var DefaultGrants = map[int][]int{
	RoleRegistered.ID: {PermissionManageMyself.ID},
	RoleAdmin.ID:      {PermissionManageMyself.ID, PermissionManageUsers.ID},
}
