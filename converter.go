package docver

// Converter converts HTML documents into markdown documents, so content
// sources can serve authored HTML pages through the same rendering path as
// native markdown.
type Converter interface {
	// ConvertDocument converts an HTML page stored under path. Title and
	// description are taken from the page's <head>; the <body> becomes the
	// markdown content.
	ConvertDocument(path string, html []byte) (*RawDocument, error)
}
