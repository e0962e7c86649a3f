package tools

import (
	"mime"
	"path/filepath"

	"github.com/decred/base58"
	"github.com/rs/xid"
)

// ObjectKey returns the key an uploaded file is stored under: its base name,
// or a random base58 name keeping the extension when random is set.
func ObjectKey(localPath string, random bool) string {
	name := filepath.Base(localPath)
	if !random {
		return name
	}
	return base58.Encode(xid.New().Bytes()) + filepath.Ext(name)
}

// ContentType guesses the MIME type from the file extension.
// Unknown extensions yield an empty string so the service picks its default.
func ContentType(name string) string {
	return mime.TypeByExtension(filepath.Ext(name))
}
