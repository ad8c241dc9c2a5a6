package swaggerui

import (
	"embed"
	"io/fs"
)

//go:embed assets
var embeddedAssets embed.FS

// assetFS serves UI assets without directory listings. The index template
// is rendered by the handler and never served raw.
type assetFS struct {
	fs fs.FS
}

func (a *assetFS) Open(name string) (fs.File, error) {
	if name == indexFile {
		return nil, fs.ErrNotExist
	}

	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if stat.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}
