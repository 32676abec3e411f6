package cipher

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrCipherNotFound = errors.New("cipher not found")

// NotFoundError carries the rejected name and the names that would have
// resolved.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cipher type %s not found. Available ciphers: %s.", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrCipherNotFound }

// Registry resolves cipher type names case-insensitively.
type Registry struct {
	ciphers map[string]Cipher
}

// NewRegistry returns a registry holding rot13 and rot47.
func NewRegistry() *Registry {
	r := &Registry{ciphers: map[string]Cipher{}}
	r.Register(&Rot13{})
	r.Register(&Rot47{})
	return r
}

func (r *Registry) Register(c Cipher) {
	if c == nil || c.Name() == "" {
		return
	}
	r.ciphers[strings.ToLower(c.Name())] = c
}

func (r *Registry) Resolve(name string) (Cipher, error) {
	key := strings.ToLower(name)
	if c, ok := r.ciphers[key]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Name: key, Available: r.Names()}
}

func (r *Registry) Encrypt(text, name string) (string, error) {
	c, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return c.Encrypt(text), nil
}

func (r *Registry) Decrypt(text, name string) (string, error) {
	c, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return c.Decrypt(text), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ciphers))
	for name := range r.ciphers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
