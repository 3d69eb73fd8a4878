package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anketa = `{
	"lastName": "Иванов",
	"firstName": "Петр",
	"midName": "Сергеевич",
	"birthday": "1985-07-01T00:00:00",
	"birthplace": "г. Москва",
	"citizen": "РФ",
	"inn": 770112345678,
	"snils": "123-456-789 01",
	"positionName": "Инженер",
	"passportSerial": "4510",
	"passportNumber": "123456",
	"passportIssueDate": "2005-08-01",
	"passportIssuedBy": "ОВД Тверской",
	"validAddress": "Москва, Тверская 1",
	"regAddress": "Москва, Арбат 2",
	"email": "ivanov@example.ru",
	"contactPhone": "+7 900 000 00 00",
	"education": {"educationType": "Высшее", "institutionName": "МГУ", "endYear": 2007},
	"experience": [
		{"beginDate": "2007-09-01", "endDate": "2015-01-31", "name": "ООО Ромашка", "position": "Инженер", "fireReason": "Переезд"},
		{"beginDate": "2015-02-01", "currentJob": true, "name": "ООО Лютик", "position": "Ведущий инженер"}
	],
	"nameWasChanged": [],
	"organizations": [{"name": "ООО Василек", "inn": "7701234567"}],
	"stateOrganizations": [{"name": "Минфин"}],
	"unknownSection": {"ignored": true}
}`

func TestReshapeBuckets(t *testing.T) {
	q, err := ParseQuestionnaire([]byte(anketa))
	require.NoError(t, err)
	b := q.Reshape()

	assert.Equal(t, "1985-07-01", b.Resume["birthday"])
	assert.Equal(t, "770112345678", b.Resume["inn"])
	assert.Len(t, b.Buckets[registry.Educations], 1)
	assert.Len(t, b.Buckets[registry.Workplaces], 2)
	assert.Len(t, b.Buckets[registry.Staffs], 1)
	assert.Len(t, b.Buckets[registry.Documents], 1)
	assert.Len(t, b.Buckets[registry.Addresses], 2)
	assert.Len(t, b.Buckets[registry.Contacts], 2)
	assert.Empty(t, b.Buckets[registry.Previous])

	affs := b.Buckets[registry.Affiliations]
	require.Len(t, affs, 2)
	assert.Equal(t, models.AffiliateCommercial, affs[0]["view"])
	assert.Equal(t, models.AffiliateState, affs[1]["view"])
	assert.Equal(t, 11, b.Count())
}

func TestParseQuestionnaireRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     `{"lastName": `,
		"no surname":   `{"firstName": "Петр", "birthday": "1985-07-01"}`,
		"no birthday":  `{"lastName": "Иванов", "firstName": "Петр"}`,
		"wrong shape":  `{"lastName": "Иванов", "firstName": "Петр", "birthday": "1985-07-01", "education": "МГУ"}`,
		"trailing doc": `{"lastName": "Иванов", "firstName": "Петр", "birthday": "1985-07-01"} {}`,
	} {
		_, err := ParseQuestionnaire([]byte(raw))
		assert.ErrorIs(t, err, types.ErrInvalidQuestionnaire, name)
	}
}

func TestImportCreatesPersonAndBuckets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.dossiers.Import(ctx, f.user, []byte(anketa))
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, "ИВАНОВ", result.Person.Surname)
	assert.Equal(t, "ПЕТР", result.Person.Firstname)
	assert.Equal(t, "СЕРГЕЕВИЧ", *result.Person.Patronymic)
	assert.Equal(t, "12345678901", *result.Person.Snils)
	assert.Equal(t, 2, result.Records[registry.Workplaces])
	assert.Equal(t, 2, result.Records[registry.Affiliations])

	listing, err := f.dossiers.ListByPerson(ctx, f.user, "workplaces", result.Person.ID)
	require.NoError(t, err)
	require.Len(t, listing.Items, 2)
	current := listing.Items[0].Record.(*models.Workplace)
	assert.True(t, current.NowWork)
	assert.Equal(t, "2015-02-01", current.Starts.String())
	assert.Nil(t, current.Finished)

	var staff models.Staff
	require.NoError(t, f.db.Where("person_id = ?", result.Person.ID).First(&staff).Error)
	assert.Equal(t, models.DefaultDepartment, *staff.Department)

	var log models.ImportLog
	require.NoError(t, f.db.Where("batch_id = ?", result.BatchID).First(&log).Error)
	assert.Equal(t, result.Person.ID, log.PersonID)
	assert.Equal(t, f.user.ID, log.UserID)
	assert.Equal(t, 11, log.Records)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(log.Document.JSON, &doc))
	assert.Equal(t, "Иванов", doc["lastName"])
}

func TestImportReusesExistingPerson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.dossiers.Import(ctx, f.user, []byte(anketa))
	require.NoError(t, err)
	second, err := f.dossiers.Import(ctx, f.user, []byte(anketa))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Person.ID, second.Person.ID)
	assert.NotEqual(t, first.BatchID, second.BatchID)

	_, err = f.dossiers.Import(ctx, f.other, []byte(anketa))
	assert.ErrorIs(t, err, types.ErrDuplicateClaim)
}

func TestImportBlankAddressesKeepTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.dossiers.Import(ctx, f.user, []byte(`{
		"lastName": "Иванов", "firstName": "Петр", "birthday": "1985-07-01",
		"validAddress": "", "regAddress": "",
		"organizations": [{"name": "ООО Василек"}]
	}`))
	require.NoError(t, err)
	pid := result.Person.ID

	var docs []models.Document
	require.NoError(t, f.db.Where("person_id = ?", pid).Find(&docs).Error)
	require.Len(t, docs, 1)
	assert.Equal(t, models.DocumentPassport, docs[0].View)

	var affs []models.Affiliation
	require.NoError(t, f.db.Where("person_id = ?", pid).Find(&affs).Error)
	require.Len(t, affs, 1)
	assert.Equal(t, models.AffiliateCommercial, affs[0].View)
	assert.Equal(t, "ООО Василек", affs[0].Organization)

	var addrs []models.Address
	require.NoError(t, f.db.Where("person_id = ?", pid).Order("id").Find(&addrs).Error)
	require.Len(t, addrs, 2)
	assert.Equal(t, models.AddressActual, addrs[0].View)
	assert.Equal(t, models.AddressRegistration, addrs[1].View)
	for _, a := range addrs {
		assert.Empty(t, a.Address)
	}
}

func TestImportSkipsJobsWithoutStartDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.dossiers.Import(ctx, f.user, []byte(`{
		"lastName": "Иванов", "firstName": "Петр", "birthday": "1985-07-01",
		"experience": [
			{"name": "ООО Ромашка", "position": "Инженер"},
			{"beginDate": "2015-02-01", "currentJob": true, "name": "ООО Лютик", "position": "Ведущий инженер"}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records[registry.Workplaces])

	var jobs []models.Workplace
	require.NoError(t, f.db.Where("person_id = ?", result.Person.ID).Find(&jobs).Error)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ООО Лютик", jobs[0].Workplace)
	assert.Equal(t, "2015-02-01", jobs[0].Starts.String())
}

func TestImportInvalidDocumentWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, raw := range map[string]string{
		"missing birthday": `{"lastName": "Иванов", "firstName": "Петр"}`,
		"bad birthday":     `{"lastName": "Иванов", "firstName": "Петр", "birthday": "01.07.1985"}`,
		"bad bucket date": `{"lastName": "Иванов", "firstName": "Петр", "birthday": "1985-07-01",
			"experience": [{"beginDate": "вчера", "name": "ООО", "position": "Инженер"}]}`,
		"surname with path": `{"lastName": "А/../../../escaped", "firstName": "Петр", "birthday": "1985-07-01"}`,
		"bad bucket inn": `{"lastName": "Иванов", "firstName": "Петр", "birthday": "1985-07-01",
			"organizations": [{"name": "ООО", "inn": "1234567890123"}]}`,
	} {
		_, err := f.dossiers.Import(ctx, f.user, []byte(raw))
		assert.ErrorIs(t, err, types.ErrInvalidQuestionnaire, name)
	}

	for _, m := range []any{&models.Person{}, &models.Workplace{}, &models.Affiliation{}, &models.ImportLog{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}
