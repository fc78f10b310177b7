package elsewhere

type Access byte

const (
	AccessUndefined Access = 0
	AccessForbidden Access = 1
	AccessAllowed   Access = 2
)

func (a Access) merge(b Access) Access {
	switch {
	case a == AccessUndefined:
		return b
	case b == AccessUndefined:
		return a
	default:
		return b
	}
}

type PermissionName string

const (
	// Create and edit network reference records.
	PermissionNetworksEdit PermissionName = "networks.edit"
	// Mark other users' profiles as verified.
	PermissionProfilesVerify PermissionName = "profiles.verify"
)

type RoleId string

type Role struct {
	Id          RoleId
	Permissions map[PermissionName]bool
}

var (
	RoleIdModerator RoleId = "moderator"
	RoleIdAdmin     RoleId = "admin"
)

var AllRoles map[RoleId]Role = mapRolesById(
	Role{
		Id: RoleIdAdmin,
		Permissions: map[PermissionName]bool{
			PermissionNetworksEdit:   true,
			PermissionProfilesVerify: true,
		},
	},
	Role{
		Id: RoleIdModerator,
		Permissions: map[PermissionName]bool{
			PermissionNetworksEdit:   false,
			PermissionProfilesVerify: true,
		},
	},
)

func mapRolesById(roles ...Role) map[RoleId]Role {
	rolesMap := make(map[RoleId]Role)
	for _, role := range roles {
		if _, ok := rolesMap[role.Id]; ok {
			panic("Duplicated role id: `" + role.Id + "`!")
		}
		rolesMap[role.Id] = role
	}
	return rolesMap
}

// Known roles with given ids, unknown ids are skipped.
func RolesByIds(ids []RoleId) Roles {
	roles := make(Roles, 0, len(ids))
	for _, id := range ids {
		if role, ok := AllRoles[id]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

func (role Role) Access(name PermissionName) Access {
	hasPermission, ok := role.Permissions[name]
	switch {
	case !ok:
		return AccessUndefined
	case hasPermission:
		return AccessAllowed
	default:
		return AccessForbidden
	}
}

type Roles []Role

func (roles Roles) Access(permission PermissionName) Access {
	access := AccessUndefined
	for _, role := range roles {
		access = access.merge(role.Access(permission))
	}
	return access
}
