package approval

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/sakti/internal/core/common/validation"
)

type RejectDTO struct {
	Reason string `json:"reason"`
}

func (d *RejectDTO) Validate() error {
	d.Reason = strings.TrimSpace(d.Reason)
	v := validation.NewValidator()
	v.Field("reason", d.Reason).Required().MaxLength(1000)
	return v.Validate()
}

type ListQuery struct {
	Search string
	Status string
	Type   string
	Expr   string
}

func ListQueryFromURL(v url.Values) ListQuery {
	return ListQuery{
		Search: v.Get("search"),
		Status: v.Get("status"),
		Type:   v.Get("type"),
		Expr:   v.Get("expr"),
	}
}
