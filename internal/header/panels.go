// Package header holds the state of the top bar: the notification and user
// menu panels and the notification feed behind the bell.
package header

type Panel string

const (
	PanelNone          Panel = ""
	PanelNotifications Panel = "notifications"
	PanelUserMenu      Panel = "user"
)

// Region is where a click landed.
type Region int

const (
	RegionElsewhere Region = iota
	RegionNotifications
	RegionUserMenu
)

// Panels allows at most one panel open at a time. The logout confirmation is
// a dialog on top and tracked separately.
type Panels struct {
	open          Panel
	confirmLogout bool
}

// ParsePanels restores the state encoded in a ?panel= query value.
func ParsePanels(v string) Panels {
	switch Panel(v) {
	case PanelNotifications, PanelUserMenu:
		return Panels{open: Panel(v)}
	case "logout":
		return Panels{confirmLogout: true}
	default:
		return Panels{}
	}
}

// Query is the inverse of ParsePanels.
func (p *Panels) Query() string {
	if p.confirmLogout {
		return "logout"
	}
	return string(p.open)
}

func (p *Panels) Open() Panel {
	return p.open
}

func (p *Panels) NotificationsOpen() bool { return p.open == PanelNotifications }

func (p *Panels) UserMenuOpen() bool { return p.open == PanelUserMenu }

func (p *Panels) LogoutConfirmOpen() bool { return p.confirmLogout }

// ToggleNotifications opens or closes the notification panel. It reports
// true when the panel was opened and its list should be fetched.
func (p *Panels) ToggleNotifications() bool {
	return p.toggle(PanelNotifications)
}

// ToggleUserMenu is ToggleNotifications for the user menu; opening it
// should refresh the profile.
func (p *Panels) ToggleUserMenu() bool {
	return p.toggle(PanelUserMenu)
}

func (p *Panels) toggle(panel Panel) bool {
	if p.open == panel {
		p.open = PanelNone
		return false
	}
	p.open = panel
	return true
}

// ClickOutside closes the open panel unless the click landed inside it.
func (p *Panels) ClickOutside(region Region) {
	switch {
	case p.open == PanelNotifications && region != RegionNotifications:
		p.open = PanelNone
	case p.open == PanelUserMenu && region != RegionUserMenu:
		p.open = PanelNone
	}
}

// OpenLogoutConfirm closes the user menu and asks for confirmation.
func (p *Panels) OpenLogoutConfirm() {
	p.open = PanelNone
	p.confirmLogout = true
}

func (p *Panels) CancelLogout() {
	p.confirmLogout = false
}
