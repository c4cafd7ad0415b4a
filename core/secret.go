package core

// Secret wraps a sensitive string such as an API key so that accidental
// logging or serialization does not leak it. The zero value is an empty
// secret. Only Expose returns the underlying value.
type Secret struct {
	value string
}

// NewSecret wraps value in a Secret.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Expose returns the underlying sensitive value. Call sites should be
// limited to the point where the value leaves the process, such as
// setting an Authorization header.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether the secret holds no value.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

// String implements fmt.Stringer and always returns a redacted marker.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer so %#v does not leak the value.
func (s Secret) GoString() string {
	return `core.Secret{value:"[REDACTED]"}`
}

// MarshalJSON implements json.Marshaler and always emits a redacted
// marker. Secrets never round-trip through JSON.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText implements encoding.TextMarshaler with the same redaction
// as MarshalJSON.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}
