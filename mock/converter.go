package mock

import "github.com/fwojciec/docver"

var _ docver.Converter = (*Converter)(nil)

// Converter is a mock implementation of docver.Converter.
type Converter struct {
	ConvertDocumentFn func(path string, html []byte) (*docver.RawDocument, error)
}

func (c *Converter) ConvertDocument(path string, html []byte) (*docver.RawDocument, error) {
	return c.ConvertDocumentFn(path, html)
}
