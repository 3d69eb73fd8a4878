// users.go
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

package schemas

import "strings"

// NewUser is the input of the user creation form.
type NewUser struct {
	Fullname string `json:"fullname" validate:"mandatory,max=255"`
	Username string `json:"username" validate:"mandatory,max=255,login"`
}

func (s *NewUser) Normalize() {
	s.Fullname = strings.Join(strings.Fields(s.Fullname), " ")
	s.Username = strings.ToLower(strings.TrimSpace(s.Username))
}

// UserAccess changes a user's role or region.
type UserAccess struct {
	Role   string `json:"role" validate:"omitempty,role"`
	Region string `json:"region" validate:"omitempty,region"`
}

func (s *UserAccess) Normalize() { trimAll(&s.Role, &s.Region) }

// Credentials is the input of the login and password forms.
type Credentials struct {
	Username    string `json:"username" validate:"mandatory"`
	Password    string `json:"password" validate:"mandatory"`
	NewPassword string `json:"new_password"`
}

// Normalize lower-cases the username.
func (s *Credentials) Normalize() {
	s.Username = strings.ToLower(strings.TrimSpace(s.Username))
}
