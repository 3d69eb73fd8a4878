// registry.go
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

// Package registry maps entity-kind names to their schema, storage record and
// rendering partials. The table is closed: fourteen kinds, built once at init.
package registry

import (
	"fmt"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/schemas"
	"github.com/localnerve/dossierdb/internal/types"
)

// Kind names an entity kind.
type Kind string

const (
	Persons        Kind = "persons"
	Previous       Kind = "previous"
	Educations     Kind = "educations"
	Staffs         Kind = "staffs"
	Documents      Kind = "documents"
	Addresses      Kind = "addresses"
	Contacts       Kind = "contacts"
	Workplaces     Kind = "workplaces"
	Affiliations   Kind = "affiliations"
	Relations      Kind = "relations"
	Checks         Kind = "checks"
	Poligrafs      Kind = "poligrafs"
	Investigations Kind = "investigations"
	Inquiries      Kind = "inquiries"
)

// Entry is the registered triple for one kind.
type Entry struct {
	Kind Kind
	// Schema returns an empty input schema.
	Schema func() schemas.Record
	// New returns an empty storage record.
	New func() models.Record
	// NewSlice returns a pointer to an empty slice of storage records, for list queries.
	NewSlice func() any
	// Records flattens a slice filled through NewSlice.
	Records func(slice any) []models.Record
	// Partial and Form are the rendering partial identifiers.
	Partial string
	Form    string
}

func newEntry[T any, PT interface {
	*T
	models.Record
}, S any, PS interface {
	*S
	schemas.Record
}](kind Kind) Entry {
	return Entry{
		Kind:   kind,
		Schema: func() schemas.Record { return PS(new(S)) },
		New:    func() models.Record { return PT(new(T)) },
		NewSlice: func() any {
			return &[]T{}
		},
		Records: func(slice any) []models.Record {
			items := *slice.(*[]T)
			out := make([]models.Record, len(items))
			for i := range items {
				out[i] = PT(&items[i])
			}
			return out
		},
		Partial: "profile/divs/" + string(kind),
		Form:    "profile/forms/" + string(kind),
	}
}

var (
	ordered = []Entry{
		newEntry[models.Person, *models.Person, schemas.Person](Persons),
		newEntry[models.Previous, *models.Previous, schemas.Previous](Previous),
		newEntry[models.Education, *models.Education, schemas.Education](Educations),
		newEntry[models.Staff, *models.Staff, schemas.Staff](Staffs),
		newEntry[models.Document, *models.Document, schemas.Document](Documents),
		newEntry[models.Address, *models.Address, schemas.Address](Addresses),
		newEntry[models.Contact, *models.Contact, schemas.Contact](Contacts),
		newEntry[models.Workplace, *models.Workplace, schemas.Workplace](Workplaces),
		newEntry[models.Affiliation, *models.Affiliation, schemas.Affiliation](Affiliations),
		newEntry[models.Relation, *models.Relation, schemas.Relation](Relations),
		newEntry[models.Check, *models.Check, schemas.Check](Checks),
		newEntry[models.Poligraf, *models.Poligraf, schemas.Poligraf](Poligrafs),
		newEntry[models.Investigation, *models.Investigation, schemas.Investigation](Investigations),
		newEntry[models.Inquiry, *models.Inquiry, schemas.Inquiry](Inquiries),
	}
	byKind = index(ordered)
)

func index(entries []Entry) map[Kind]Entry {
	m := make(map[Kind]Entry, len(entries))
	for _, e := range entries {
		if _, dup := m[e.Kind]; dup {
			panic(fmt.Sprintf("registry: duplicate kind %q", e.Kind))
		}
		m[e.Kind] = e
	}
	return m
}

// Lookup returns the entry for name or ErrUnknownEntityKind.
func Lookup(name string) (Entry, error) {
	e, ok := byKind[Kind(name)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", types.ErrUnknownEntityKind, name)
	}
	return e, nil
}

// Kinds returns every kind, persons first.
func Kinds() []Kind {
	out := make([]Kind, len(ordered))
	for i, e := range ordered {
		out[i] = e.Kind
	}
	return out
}

// ChildKinds returns the thirteen kinds owned by a person.
func ChildKinds() []Kind {
	return Kinds()[1:]
}
