package changerequest

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/core/common/validation"
)

type AssetDTO struct {
	BMDID     string `json:"bmdId"`
	AssetName string `json:"assetName"`
}

type CreateDTO struct {
	Title          string     `json:"title"`
	Dinas          string     `json:"dinas"`
	Catalog        string     `json:"catalog"`
	SubCatalog     string     `json:"subCatalog"`
	BMDID          string     `json:"bmdId"`
	Type           Type       `json:"type"`
	Notes          string     `json:"notes"`
	AffectedAssets []AssetDTO `json:"affectedAssets"`
}

func (d *CreateDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.Dinas = strings.TrimSpace(d.Dinas)
	if d.Type == "" {
		d.Type = TypeStandard
	}

	types := make([]string, len(Types))
	for i, t := range Types {
		types[i] = string(t)
	}

	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("dinas", d.Dinas).Required().MaxLength(120)
	v.Field("type", string(d.Type)).OneOf(types...)
	v.Field("affectedAssets", d.AffectedAssets).Custom(func(value interface{}) *internal.AppError {
		for _, a := range value.([]AssetDTO) {
			if strings.TrimSpace(a.BMDID) == "" || strings.TrimSpace(a.AssetName) == "" {
				return internal.NewValidationFieldError("affectedAssets", "every asset needs a bmdId and an assetName", internal.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return v.Validate()
}

// ListQuery carries the list filters. Empty or "all" values do not filter.
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
