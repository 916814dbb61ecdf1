package role

import (
	"fmt"
	"strings"
)

// Role is the closed set of SAKTI user roles. It is assigned by the backend at
// login and never changes for the lifetime of a session.
type Role string

const (
	Teknisi    Role = "teknisi"
	Kasi       Role = "kasi"
	Kabid      Role = "kabid"
	Diskominfo Role = "diskominfo"
)

// All lists every role in display order.
var All = []Role{Teknisi, Kasi, Kabid, Diskominfo}

var labels = map[Role]string{
	Teknisi:    "Teknisi",
	Kasi:       "Kepala Seksi",
	Kabid:      "Kepala Bidang",
	Diskominfo: "Diskominfo",
}

func Parse(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := labels[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Label is the human readable name shown in the user menu.
func (r Role) Label() string {
	if l, ok := labels[r]; ok {
		return l
	}
	return "N/A"
}

// IsApprover reports whether the role belongs to an approval tier.
func (r Role) IsApprover() bool {
	return r == Kasi || r == Kabid || r == Diskominfo
}
