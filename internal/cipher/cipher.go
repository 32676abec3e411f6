package cipher

type Cipher interface {
	Name() string
	Encrypt(text string) string
	Decrypt(text string) string
	Shift(text string, shift int) string
}

// Rot13 rotates ASCII letters by 13 places, keeping case.
type Rot13 struct{}

func (c *Rot13) Name() string { return "rot13" }

func (c *Rot13) Encrypt(text string) string { return c.Shift(text, 13) }

func (c *Rot13) Decrypt(text string) string { return c.Shift(text, 13) }

func (c *Rot13) Shift(text string, shift int) string {
	shift = mod(shift, 26)
	out := []rune(text)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
			out[i] = 'a' + rune(mod(int(r-'a')+shift, 26))
		case r >= 'A' && r <= 'Z':
			out[i] = 'A' + rune(mod(int(r-'A')+shift, 26))
		}
	}
	return string(out)
}

// Rot47 rotates the printable ASCII band '!'..'~' by 47 places.
type Rot47 struct{}

const (
	rot47Low  = 33
	rot47High = 126
	rot47Span = rot47High - rot47Low + 1
)

func (c *Rot47) Name() string { return "rot47" }

func (c *Rot47) Encrypt(text string) string { return c.Shift(text, 47) }

func (c *Rot47) Decrypt(text string) string { return c.Shift(text, 47) }

func (c *Rot47) Shift(text string, shift int) string {
	shift = mod(shift, rot47Span)
	out := []rune(text)
	for i, r := range out {
		if r >= rot47Low && r <= rot47High {
			out[i] = rot47Low + rune(mod(int(r-rot47Low)+shift, rot47Span))
		}
	}
	return string(out)
}

// Func adapts a self-inverse string mapping, such as one exported by a
// plugin, to the Cipher interface. Shift ignores its amount.
type Func struct {
	name string
	fn   func(string) string
}

func NewFunc(name string, fn func(string) string) *Func {
	return &Func{name: name, fn: fn}
}

func (c *Func) Name() string { return c.name }

func (c *Func) Encrypt(text string) string { return c.fn(text) }

func (c *Func) Decrypt(text string) string { return c.fn(text) }

func (c *Func) Shift(text string, _ int) string { return c.fn(text) }

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
