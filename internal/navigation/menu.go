// Package navigation derives the sidebar menu from a user's role.
package navigation

import "github.com/frahmantamala/sakti/internal/role"

// Link is a single navigable route.
type Link struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Active bool   `json:"active,omitempty"`
}

// MenuEntry is either a leaf (Path set, no SubItems) or a group of links.
// Groups nest one level deep at most.
type MenuEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	SubItems []Link `json:"subItems,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
}

func (e MenuEntry) IsGroup() bool {
	return len(e.SubItems) > 0
}

const (
	PathDashboard     = "/"
	PathChangeRequest = "/change-request"
	PathChangeSched   = "/change-schedule"
	PathChangeResults = "/change-results"
	PathPatchJob      = "/patch-job"
	PathPatchSched    = "/patch-schedule"
	PathPatchResults  = "/patch-results"
	PathEmergency     = "/emergency"
	PathCMDB          = "/cmdb"
	PathApproval      = "/approval"
)

var (
	dashboard = MenuEntry{Name: "Dashboard", Path: PathDashboard}
	cmdb      = MenuEntry{Name: "CMDB", Path: PathCMDB}
	approval  = MenuEntry{Name: "Approval", Path: PathApproval}
)

var menuTable = map[role.Role][]MenuEntry{
	role.Teknisi: {
		dashboard,
		{
			Name: "Change Management",
			SubItems: []Link{
				{Name: "Change Request", Path: PathChangeRequest},
				{Name: "Change Schedule", Path: PathChangeSched},
				{Name: "Change Results", Path: PathChangeResults},
			},
		},
		{
			Name: "Patch Management",
			SubItems: []Link{
				{Name: "Patch Job", Path: PathPatchJob},
				{Name: "Patch Schedule", Path: PathPatchSched},
				{Name: "Patch Results", Path: PathPatchResults},
			},
		},
		{Name: "Emergency", Path: PathEmergency},
		cmdb,
	},
	role.Kasi:       {dashboard, approval, cmdb},
	role.Kabid:      {dashboard, approval, cmdb},
	role.Diskominfo: {dashboard, approval, {Name: "Patch Job", Path: PathPatchJob}, cmdb},
}

// MenuItemsByRole returns the ordered sidebar entries for r. Unknown roles get
// an empty menu. The result is a copy and may be modified by the caller.
func MenuItemsByRole(r role.Role) []MenuEntry {
	entries, ok := menuTable[r]
	if !ok {
		return []MenuEntry{}
	}

	out := make([]MenuEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.SubItems != nil {
			out[i].SubItems = append([]Link(nil), e.SubItems...)
		}
	}
	return out
}

// Paths flattens the menu of r into the list of routes it links to.
func Paths(r role.Role) []string {
	var paths []string
	for _, e := range MenuItemsByRole(r) {
		if e.IsGroup() {
			for _, l := range e.SubItems {
				paths = append(paths, l.Path)
			}
			continue
		}
		paths = append(paths, e.Path)
	}
	return paths
}

// Highlight marks the entry owning currentPath as active. A group whose child
// is active is also expanded, and so is the group named by expanded.
func Highlight(entries []MenuEntry, currentPath, expanded string) []MenuEntry {
	for i := range entries {
		e := &entries[i]
		if !e.IsGroup() {
			e.Active = owns(e.Path, currentPath)
			continue
		}
		for j := range e.SubItems {
			if owns(e.SubItems[j].Path, currentPath) {
				e.SubItems[j].Active = true
				e.Active = true
			}
		}
		e.Expanded = e.Active || e.Name == expanded
	}
	return entries
}

// owns treats detail routes ("/approval/3") as belonging to their list route.
func owns(path, current string) bool {
	if path == current {
		return true
	}
	if path == PathDashboard {
		return false
	}
	return len(current) > len(path) && current[:len(path)] == path && current[len(path)] == '/'
}
