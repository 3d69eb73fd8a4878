// validate.go
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

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
)

// Schema is a validated, normalized input form of one entity kind.
type Schema interface {
	// Normalize trims every field and applies per-field rules such as upper-casing names.
	Normalize()
}

type lenientKey struct{}

// Lenient marks ctx so that mandatory fields may be missing. Questionnaire imports decode this way.
func Lenient(ctx context.Context) context.Context {
	return context.WithValue(ctx, lenientKey{}, true)
}

func isLenient(ctx context.Context) bool {
	v, _ := ctx.Value(lenientKey{}).(bool)
	return v
}

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// pathSafe reports whether s can be used as a directory name component.
func pathSafe(s string) bool {
	return !strings.ContainsAny(s, "/\\\x00") && !strings.Contains(s, "..")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the domain tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegisterCtx(v, "mandatory", func(ctx context.Context, fl validator.FieldLevel) bool {
			return isLenient(ctx) || fl.Field().String() != ""
		})
		mustRegister(v, "date", func(fl validator.FieldLevel) bool {
			_, err := types.ParseDate(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "year", func(fl validator.FieldLevel) bool {
			y, err := strconv.Atoi(fl.Field().String())
			return err == nil && y >= 1900 && y <= 2100
		})
		mustRegister(v, "login", func(fl validator.FieldLevel) bool {
			return loginPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "name", func(fl validator.FieldLevel) bool {
			return pathSafe(fl.Field().String())
		})
		mustRegister(v, "region", enum(regionNames()))
		mustRegister(v, "role", enum(roleNames()))
		mustRegister(v, "conclusion", enum(models.Conclusions))
		mustRegister(v, "relation", enum(models.Relations))
		mustRegister(v, "affiliate", enum(models.Affiliates))
		mustRegister(v, "poligraf", enum(models.PoligrafThemes))
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func mustRegisterCtx(v *validator.Validate, tag string, fn validator.FuncCtx) {
	if err := v.RegisterValidationCtx(tag, fn); err != nil {
		panic(err)
	}
}

func enum(set []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return models.Contains(set, fl.Field().String())
	}
}

func regionNames() []string {
	out := make([]string, len(models.Regions))
	for i, r := range models.Regions {
		out[i] = string(r)
	}
	return out
}

func roleNames() []string {
	out := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		out[i] = string(r)
	}
	return out
}

// Decode copies a free-form field map into schema, normalizes it and validates it.
// Values are stringified and trimmed; blank values count as absent.
func Decode(ctx context.Context, fields map[string]any, schema Schema) error {
	flat := make(map[string]string, len(fields))
	for k, v := range fields {
		if s := stringify(v); s != "" {
			flat[k] = s
		}
	}

	raw, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	if err := json.Unmarshal(raw, schema); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}

	schema.Normalize()
	return Validate(ctx, schema)
}

// Validate runs the struct validator and converts failures to a *types.ValidationError.
func Validate(ctx context.Context, schema any) error {
	err := Validator().StructCtx(ctx, schema)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &types.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = reason(fe)
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "mandatory", "required":
		return "is required"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "year":
		return "must be a year between 1900 and 2100"
	case "number", "numeric":
		return "must contain digits only"
	case "boolean":
		return "must be true or false"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be an email address"
	case "login":
		return "may contain latin letters, digits, dots and underscores only"
	case "name":
		return "must not contain slashes, NUL or \"..\""
	case "region", "role", "conclusion", "relation", "affiliate", "poligraf":
		return "is not an allowed " + fe.Tag() + " value"
	}
	return "failed " + fe.Tag() + " check"
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []string:
		if len(t) == 0 {
			return ""
		}
		return strings.TrimSpace(t[0])
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
