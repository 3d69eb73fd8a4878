// mapper.go
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

// Package dossier derives and maintains the on-disk directory of each dossier:
// {base}/{region}/{surname initial}/{id}-{surname} {firstname} {patronymic}
package dossier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/dossierdb/internal/models"
)

// Letters are the surname initials pre-created inside every region.
const Letters = "АБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЫЭЮЯ"

// Mapper maps persons to directories below a base path.
type Mapper struct {
	base   string
	rename func(oldpath, newpath string) error
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithRename replaces os.Rename, the primitive used to relocate directories.
func WithRename(fn func(oldpath, newpath string) error) Option {
	return func(m *Mapper) { m.rename = fn }
}

// New returns a Mapper rooted at base.
func New(base string, opts ...Option) *Mapper {
	m := &Mapper{base: base, rename: os.Rename}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Base returns the root directory.
func (m *Mapper) Base() string { return m.base }

// Path derives the directory of a person. It does not touch the filesystem.
// Separators, NUL and ".." in the name parts are replaced so the result always
// stays below the base path.
func (m *Mapper) Path(region models.Region, surname, firstname, patronymic string, id uint) string {
	initial := ""
	if r, size := utf8.DecodeRuneInString(surname); size > 0 && r != utf8.RuneError {
		initial = component(string(r))
		if initial == "." {
			initial = "_"
		}
	}
	leaf := strings.TrimSpace(fmt.Sprintf("%s-%s %s %s",
		strconv.FormatUint(uint64(id), 10), component(surname), component(firstname), component(patronymic)))
	return filepath.Join(m.base, component(string(region)), initial, leaf)
}

// component makes s usable as a single path element.
func component(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "..", "_")
}

// within returns an error unless dir is the base path or below it.
func (m *Mapper) within(dir string) error {
	rel, err := filepath.Rel(m.base, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("dossier directory %s is outside %s", dir, m.base)
	}
	return nil
}

// PersonPath derives the directory of p for the given region.
func (m *Mapper) PersonPath(p *models.Person, region models.Region) string {
	return m.Path(region, p.Surname, p.Firstname, p.PatronymicOrEmpty(), p.ID)
}

// Ensure creates dir and its parents. An existing directory is success.
// Directories outside the base path are refused.
func (m *Mapper) Ensure(dir string) error {
	if err := m.within(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dossier directory %s: %w", dir, err)
	}
	return nil
}

// ItemDir returns and creates {dossier}/{sub...}.
func (m *Mapper) ItemDir(dossierDir string, sub ...string) (string, error) {
	dir := filepath.Join(append([]string{dossierDir}, sub...)...)
	return dir, m.Ensure(dir)
}

// Relocate moves the tree at from to to. When from does not exist, to is created
// empty. Nothing is changed on failure.
func (m *Mapper) Relocate(from, to string) error {
	if from == to {
		return m.Ensure(to)
	}
	if err := m.within(from); err != nil {
		return err
	}
	if err := m.within(to); err != nil {
		return err
	}

	if _, err := os.Stat(from); errors.Is(err, fs.ErrNotExist) {
		return m.Ensure(to)
	} else if err != nil {
		return fmt.Errorf("stat dossier directory %s: %w", from, err)
	}

	if _, err := os.Stat(to); err == nil {
		return fmt.Errorf("relocate %s: target %s already exists", from, to)
	}

	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("relocate %s: %w", from, err)
	}
	if err := m.rename(from, to); err != nil {
		return fmt.Errorf("relocate %s to %s: %w", from, to, err)
	}
	return nil
}

// Prepare creates the base path, every region and every initial letter inside it.
func (m *Mapper) Prepare() error {
	for _, region := range models.Regions {
		for _, letter := range Letters {
			if err := m.Ensure(filepath.Join(m.base, string(region), string(letter))); err != nil {
				return err
			}
		}
	}
	return nil
}

// Writable reports whether files can be created in the base path.
func (m *Mapper) Writable() error {
	f, err := os.CreateTemp(m.base, ".writable-*")
	if err != nil {
		return fmt.Errorf("base path %s not writable: %w", m.base, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
