package main

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/coredoc/internal/doctree"
)

func writeDocument(w io.Writer, doc doctree.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
