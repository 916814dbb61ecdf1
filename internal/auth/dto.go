package auth

import "github.com/frahmantamala/sakti/internal/core/common/validation"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields. The service folds any failure into
// ErrInvalidCredentials.
func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
