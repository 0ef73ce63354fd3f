// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"goldsrc/conlog"
	"goldsrc/palette"
)

// Write encodes img as png.
func Write(w io.Writer, img *palette.Image) error {
	if len(img.Pix) < img.Width*img.Height*4 {
		return errors.Errorf("image %q: %d bytes for %dx%d", img.Name, len(img.Pix), img.Width, img.Height)
	}
	if err := png.Encode(w, img.NRGBA()); err != nil {
		return errors.Wrapf(err, "encode %q", img.Name)
	}
	return nil
}

// WriteFile writes img as png to name.
func WriteFile(name string, img *palette.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := Write(f, img); err != nil {
		return err
	}
	conlog.Debug("wrote image", "file", name, "width", img.Width, "height", img.Height)
	return nil
}

// FileName returns a file name for a texture name. Texture names may contain
// characters like '*' or '/' that are not valid in file names.
func FileName(dir, texture string) string {
	b := []byte(texture)
	for i, c := range b {
		switch c {
		case '*', '/', '\\', ':', '?', '"', '<', '>', '|':
			b[i] = '_'
		}
	}
	if len(b) == 0 {
		b = []byte("_")
	}
	return filepath.Join(dir, string(b)+".png")
}
