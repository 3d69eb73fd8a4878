// files.go
//
// Personnel vetting dossier service with questionnaire import and per-person file storage
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of dossierdb.
// dossierdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// dossierdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with dossierdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/dossierdb/internal/metrics"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Special upload kinds.
const (
	UploadImage  = "image"
	UploadAnketa = "anketa"
	// PhotoFile is the name of the stored photo inside the image directory.
	PhotoFile = "image.jpg"
)

// EnsureDestination returns the person's dossier directory, creating it and
// recording it on first use.
func (d *Dossiers) EnsureDestination(ctx context.Context, actor Actor, personID uint) (*models.Person, error) {
	db := d.db.WithContext(ctx)
	person, err := loadPerson(db, actor, personID, false)
	if err != nil {
		return nil, err
	}
	if err := checkClaim(person, actor); err != nil {
		return nil, err
	}

	if person.Destination != nil && *person.Destination != "" {
		return person, d.mapper.Ensure(*person.Destination)
	}

	dir := d.mapper.PersonPath(person, person.Region)
	if err := d.mapper.Ensure(dir); err != nil {
		return nil, err
	}
	if err := silent(db).Model(person).Update("destination", dir).Error; err != nil {
		return nil, fmt.Errorf("record destination of person %d: %w", personID, err)
	}
	person.Destination = &dir
	return person, nil
}

// SaveFiles stores uploads under {dossier}/{kind}/{YYYY-MM-DD}/ and returns the stored paths.
func (d *Dossiers) SaveFiles(ctx context.Context, actor Actor, kind string, personID uint, files []*multipart.FileHeader) ([]string, error) {
	if _, err := registry.Lookup(kind); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, types.NewValidationError("file", "is required")
	}

	person, err := d.EnsureDestination(ctx, actor, personID)
	if err != nil {
		return nil, err
	}
	dir, err := d.mapper.ItemDir(*person.Destination, kind, time.Now().Format(types.DateLayout))
	if err != nil {
		return nil, err
	}

	stored := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := saveUpload(dir, fh)
		if err != nil {
			return stored, err
		}
		stored = append(stored, path)
		metrics.Uploads.WithLabelValues(kind).Inc()
	}

	d.log.Info("files stored",
		zap.String("kind", kind),
		zap.Uint("person_id", personID),
		zap.Int("count", len(stored)),
		zap.String("actor", actor.Username))
	return stored, nil
}

func saveUpload(dir string, fh *multipart.FileHeader) (string, error) {
	name := filepath.Base(strings.ReplaceAll(fh.Filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		name = uuid.NewString()
	}
	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(dir, uuid.NewString()[:8]+"-"+name)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	return target, writeAtomic(target, func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
}

// SaveImage re-encodes an uploaded picture as the dossier photo.
func (d *Dossiers) SaveImage(ctx context.Context, actor Actor, personID uint, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", types.NewValidationError("image", "is not a supported picture")
	}

	person, err := d.EnsureDestination(ctx, actor, personID)
	if err != nil {
		return "", err
	}
	dir, err := d.mapper.ItemDir(*person.Destination, UploadImage)
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, PhotoFile)
	if err := writeAtomic(target, func(w io.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	}); err != nil {
		return "", err
	}
	metrics.Uploads.WithLabelValues(UploadImage).Inc()
	return target, nil
}

// PhotoPath returns the stored photo of a person, or "" when there is none.
func (d *Dossiers) PhotoPath(ctx context.Context, actor Actor, personID uint) (string, error) {
	person, err := loadPerson(d.db.WithContext(ctx), actor, personID, false)
	if err != nil {
		return "", err
	}
	if person.Destination == nil || *person.Destination == "" {
		return "", nil
	}
	path := filepath.Join(*person.Destination, UploadImage, PhotoFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

// writeAtomic writes through a temp file in the target directory and renames it into place.
func writeAtomic(target string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-"+uuid.NewString()+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("store %s: %w", target, err)
	}
	return nil
}
