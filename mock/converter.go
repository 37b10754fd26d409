package mock

import "github.com/fwojciec/digest"

var _ digest.Converter = (*Converter)(nil)

// Converter is a mock of digest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

// Convert calls ConvertFn.
func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
