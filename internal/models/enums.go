package models

// Role is a user's access role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Roles lists every role.
var Roles = []Role{RoleAdmin, RoleUser, RoleGuest}

// Region is one of the five organizational partitions. The value doubles as the
// top-level directory name of the dossier file tree.
type Region string

const (
	RegionMain  Region = "Главный офис"
	RegionSouth Region = "РЦ Юг"
	RegionWest  Region = "РЦ Запад"
	RegionUral  Region = "РЦ Урал"
	RegionEast  Region = "РЦ Восток"
)

// Regions lists every region, head office first.
var Regions = []Region{RegionMain, RegionSouth, RegionWest, RegionUral, RegionEast}

// Check conclusions.
const (
	ConclusionAgreed   = "СОГЛАСОВАНО"
	ConclusionComments = "СОГЛАСОВАНО С КОММЕНТАРИЕМ"
	ConclusionDenied   = "ОТКАЗАНО В СОГЛАСОВАНИИ"
)

// Conclusions lists every check conclusion.
var Conclusions = []string{ConclusionAgreed, ConclusionComments, ConclusionDenied}

// Relation kinds between two persons.
var Relations = []string{
	"Одно лицо",
	"Родители-Дети",
	"Братья-Сестры",
	"Супруг-Супруга",
	"Родственники",
	"Близкая связь",
}

// Affiliation categories.
const (
	AffiliateState      = "Являлся государственным/муниципальным служащим"
	AffiliatePublic     = "Являлся государственным должностным лицом"
	AffiliateRelated    = "Связанные лица работают в государственных организациях"
	AffiliateCommercial = "Участвует в деятельности коммерческих организаций"
)

// Affiliates lists every affiliation category.
var Affiliates = []string{AffiliateState, AffiliatePublic, AffiliateRelated, AffiliateCommercial}

// Polygraph test themes.
var PoligrafThemes = []string{
	"Проверка кандидата",
	"Служебная проверка",
	"Служебное расследование",
	"Плановое мероприятие",
}

// Tags the questionnaire importer puts on synthesized records.
const (
	DocumentPassport    = "Паспорт"
	AddressRegistration = "Адрес регистрации"
	AddressActual       = "Адрес проживания"
	ContactPhone        = "Телефон"
	ContactEmail        = "Электронная почта"
	DefaultDepartment   = "Прямое подчинение"
)

// ValidRole reports whether s names a role.
func ValidRole(s string) bool {
	for _, r := range Roles {
		if string(r) == s {
			return true
		}
	}
	return false
}

// ValidRegion reports whether s names a region.
func ValidRegion(s string) bool {
	for _, r := range Regions {
		if string(r) == s {
			return true
		}
	}
	return false
}

// Contains reports whether set holds s.
func Contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
