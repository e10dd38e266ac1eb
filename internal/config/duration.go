package config

import "time"

// Duration is a time.Duration that reads and writes as a string like "30s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}

	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(parsed)

	return nil
}

// MarshalText renders the duration, empty for zero.
func (d Duration) MarshalText() ([]byte, error) {
	if d == 0 {
		return []byte{}, nil
	}

	return []byte(time.Duration(d).String()), nil
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	text, _ := d.MarshalText()
	return string(text)
}
