package domain

import "github.com/Eursukkul/dormmate-service/internal/models"

const (
	RouteLanding        = "/"
	RouteAuth           = "/auth"
	RouteAdmin          = "/admin"
	RouteStudent        = "/student"
	RouteSecurity       = "/security"
	RouteMess           = "/mess"
	RouteHostels        = "/hostels"
	RouteHostelDetail   = "/hostels/:id"
	RouteHostelRegister = "/hostel/register"
)

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

var routes = map[models.Role]string{
	models.RoleAdmin:    RouteAdmin,
	models.RoleStudent:  RouteStudent,
	models.RoleSecurity: RouteSecurity,
	models.RoleMess:     RouteMess,
	models.RoleHostel:   RouteHostels,
}

var navigation = map[models.Role][]NavItem{
	models.RoleAdmin: {
		{"Dashboard", RouteAdmin, "layout-dashboard"},
		{"Students", RouteAdmin + "/students", "users"},
		{"Rooms", RouteAdmin + "/rooms", "bed"},
		{"Room Assignments", RouteAdmin + "/assignments", "key"},
		{"Mess Menu", RouteAdmin + "/mess", "utensils"},
		{"Attendance", RouteAdmin + "/attendance", "clipboard-check"},
		{"Hostels", RouteAdmin + "/hostels", "building"},
		{"Complaints", RouteAdmin + "/complaints", "message-square-warning"},
	},
	models.RoleStudent: {
		{"Dashboard", RouteStudent, "layout-dashboard"},
		{"My Room", RouteStudent + "/room", "bed"},
		{"Mess Menu", RouteStudent + "/mess", "utensils"},
		{"Complaints", RouteStudent + "/complaints", "message-square-warning"},
		{"Assistant", RouteStudent + "/assistant", "bot"},
	},
	models.RoleSecurity: {
		{"Dashboard", RouteSecurity, "layout-dashboard"},
		{"Attendance", RouteSecurity + "/attendance", "clipboard-check"},
		{"Students", RouteSecurity + "/students", "users"},
	},
	models.RoleMess: {
		{"Dashboard", RouteMess, "layout-dashboard"},
		{"Mess Menu", RouteMess + "/menu", "utensils"},
	},
	models.RoleHostel: {
		{"My Hostel", RouteHostels, "building"},
		{"Register Hostel", RouteHostelRegister, "plus"},
	},
}

// RouteForRole returns the dashboard route of role, or RouteAuth for a role
// that still has to be chosen.
func RouteForRole(role models.Role) string {
	if r, ok := routes[role]; ok {
		return r
	}
	return RouteAuth
}

// ThemeForRole is the global class toggled on the layout shell.
func ThemeForRole(role models.Role) string {
	if !role.Valid() {
		return ""
	}
	return "theme-" + string(role)
}

func NavForRole(role models.Role) []NavItem {
	items := navigation[role]
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}
