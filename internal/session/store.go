package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/role"
)

var ErrEmptySession = errors.New("session requires a token and a user")

// Session is what a successful login hands to the client.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Store is the only reader and writer of the session keys. A session counts as
// authenticated when both keys are present and the user parses as a JSON
// object. Role checks happen later, at the menu and the view gate.
type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

func (s *Store) IsAuthenticated() bool {
	return s.GetToken() != "" && s.GetUser() != nil
}

// GetUser returns nil when the user key is missing or is not a JSON object.
// Known fields are read leniently, so a numeric id still yields a user.
func (s *Store) GetUser() *user.User {
	raw, ok := s.storage.Get(KeyUser)
	if !ok || raw == "" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil
	}
	if dec.More() {
		return nil
	}

	return &user.User{
		ID:       text(fields["id"]),
		Username: text(fields["username"]),
		Name:     text(fields["name"]),
		Email:    text(fields["email"]),
		Role:     role.Role(text(fields["role"])),
		Instansi: text(fields["instansi"]),
	}
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func (s *Store) GetToken() string {
	token, _ := s.storage.Get(KeyToken)
	return token
}

func (s *Store) Save(sess Session) error {
	if sess.Token == "" || sess.User == nil {
		return ErrEmptySession
	}

	raw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(KeyToken, sess.Token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := s.storage.Set(KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Logout wipes the whole storage, not just the session keys.
func (s *Store) Logout() error {
	return s.storage.Clear()
}
