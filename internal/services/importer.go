// importer.go
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

	"github.com/google/uuid"
	"github.com/localnerve/dossierdb/internal/metrics"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/schemas"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportResult describes an accepted questionnaire.
type ImportResult struct {
	BatchID string                `json:"batch_id"`
	Person  *models.Person        `json:"person"`
	Created bool                  `json:"created"`
	Records map[registry.Kind]int `json:"records"`
}

type stagedRecord struct {
	kind registry.Kind
	rec  models.Record
}

// Import parses, reshapes and validates a questionnaire, then stores the resume
// and every bucket entry in one transaction. Nothing is written unless the whole
// document is valid.
func (d *Dossiers) Import(ctx context.Context, actor Actor, raw []byte) (*ImportResult, error) {
	result, err := d.importQuestionnaire(ctx, actor, raw)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, types.ErrInvalidQuestionnaire) {
			outcome = "invalid"
		}
		metrics.Imports.WithLabelValues(outcome).Inc()
		d.log.Warn("questionnaire rejected", zap.String("actor", actor.Username), zap.Error(err))
		return nil, err
	}

	metrics.Imports.WithLabelValues("accepted").Inc()
	d.log.Info("questionnaire imported",
		zap.String("batch_id", result.BatchID),
		zap.Uint("person_id", result.Person.ID),
		zap.Bool("created", result.Created),
		zap.String("actor", actor.Username))
	return result, nil
}

func (d *Dossiers) importQuestionnaire(ctx context.Context, actor Actor, raw []byte) (*ImportResult, error) {
	q, err := ParseQuestionnaire(raw)
	if err != nil {
		return nil, err
	}
	bundle := q.Reshape()

	var resume schemas.Person
	if err := schemas.Decode(ctx, bundle.Resume, &resume); err != nil {
		return nil, fmt.Errorf("%w: resume: %v", types.ErrInvalidQuestionnaire, err)
	}
	person := resume.Record().(*models.Person)

	staged, err := stage(ctx, bundle)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{BatchID: uuid.NewString(), Records: map[registry.Kind]int{}}
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := takeResume(tx, actor, person)
		if err != nil {
			return err
		}
		result.Person = taken.Person
		result.Created = taken.Created

		for _, s := range staged {
			s.rec.SetOwner(taken.Person.ID, actor.ID)
			if err := silent(tx).Create(s.rec).Error; err != nil {
				return fmt.Errorf("import %s: %w", s.kind, err)
			}
			result.Records[s.kind]++
		}

		return silent(tx).Create(&models.ImportLog{
			BatchID:  result.BatchID,
			PersonID: taken.Person.ID,
			UserID:   actor.ID,
			Records:  len(staged),
			Document: models.NewJSON(raw),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// stage validates every bucket entry leniently, in registry order.
func stage(ctx context.Context, bundle *Bundle) ([]stagedRecord, error) {
	lenient := schemas.Lenient(ctx)
	staged := make([]stagedRecord, 0, bundle.Count())

	for _, kind := range registry.ChildKinds() {
		entries := bundle.Buckets[kind]
		if len(entries) == 0 {
			continue
		}
		entry, err := registry.Lookup(string(kind))
		if err != nil {
			return nil, err
		}
		for i, fields := range entries {
			schema := entry.Schema()
			if err := schemas.Decode(lenient, fields, schema); err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", types.ErrInvalidQuestionnaire, kind, i, err)
			}
			staged = append(staged, stagedRecord{kind: kind, rec: schema.Record()})
		}
	}
	return staged, nil
}
