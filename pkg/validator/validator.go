// Package validator validates blob field values and keys against the
// register's closed datatype grammar (spec.md §4.6).
//
// Grounded on original_source/registers/validator.py for structure
// (validate/validate_value/validate_value_datatype), but the regular
// expressions themselves follow spec.md §4.6's table, which sharpens a few
// of the original's grammars (e.g. curie and name must start with a
// lowercase/uppercase letter, not any word character; url additionally
// requires a dotted hostname).
package validator

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/schema"
)

var (
	curieRE     = regexp.MustCompile(`^[a-z][a-z0-9-]*:[\w0-9_/.%-]*$`)
	datetimeRE  = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2}(T\d{2}(:\d{2}(:\d{2})?)?Z)?)?)?$`)
	nameRE      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
	hashRE      = regexp.MustCompile(`^sha-256:[a-f0-9]{64}$`)
	integerRE   = regexp.MustCompile(`^(0|-?[1-9][0-9]*)$`)
	periodRE    = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+S)?)?$`)
	timestampRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
	keyRE       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_./-]*$`)
)

// Validate checks a decoded blob-field map against schema, applying the
// primary-key presence check, per-field schema membership, cardinality
// matching and datatype grammar validation described in spec.md §4.6.
func Validate(data map[string]blob.Value, s *schema.Schema) error {
	if pk, ok := data[s.PrimaryKey]; !ok || isEmptyValue(pk) {
		return &rerr.MissingPrimaryKey{PrimaryKey: s.PrimaryKey, Value: s.PrimaryKey}
	}

	for key, value := range data {
		attr, ok := s.Get(key)
		if !ok {
			return &rerr.UnknownAttribute{Attribute: key, Value: key}
		}

		if isEmptyValue(value) {
			continue
		}

		if value.IsList() {
			if attr.Cardinality != schema.Many {
				return &rerr.CardinalityMismatch{Attribute: key, Cardinality: string(attr.Cardinality), Value: key}
			}
			items, _ := value.Items()
			for _, el := range items {
				if err := ValidateValue(el, attr); err != nil {
					return err
				}
			}
		} else {
			if attr.Cardinality != schema.One {
				return &rerr.CardinalityMismatch{Attribute: key, Cardinality: string(attr.Cardinality), Value: key}
			}
			scalar, _ := value.Scalar()
			if err := ValidateValue(scalar, attr); err != nil {
				return err
			}
		}
	}

	return nil
}

func isEmptyValue(v blob.Value) bool {
	if v.IsList() {
		items, _ := v.Items()
		return len(items) == 0
	}
	s, _ := v.Scalar()
	return s == ""
}

// ValidateValue checks a single scalar value against its attribute's
// datatype grammar.
func ValidateValue(value string, attr schema.Attribute) error {
	return ValidateDatatype(value, attr.Datatype)
}

// ValidateDatatype checks value against the grammar for datatype.
func ValidateDatatype(value string, datatype schema.Datatype) error {
	switch datatype {
	case schema.Curie:
		if !curieRE.MatchString(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Curie), Value: value}
		}
	case schema.Datetime:
		if !datetimeRE.MatchString(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Datetime), Value: value}
		}
	case schema.Name:
		if !nameRE.MatchString(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Name), Value: value}
		}
	case schema.Hash:
		if !hashRE.MatchString(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Hash), Value: value}
		}
	case schema.Integer:
		if !integerRE.MatchString(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Integer), Value: value}
		}
	case schema.Period:
		if !validPeriod(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Period), Value: value}
		}
	case schema.Timestamp:
		if !timestampRE.MatchString(value) {
			return &rerr.InvalidValue{Datatype: string(schema.Timestamp), Value: value}
		}
	case schema.URL:
		if !validURL(value) {
			return &rerr.InvalidValue{Datatype: string(schema.URL), Value: value}
		}
	case schema.StringT, schema.Text:
		// Any UTF-8 string is valid.
	}
	return nil
}

// validPeriod implements spec.md §4.6's period grammar: either an ISO-8601
// duration (bare "P" and a trailing "T" forbidden), or "part/part" where
// each part is itself a duration or a datetime.
func validPeriod(value string) bool {
	if before, after, ok := strings.Cut(value, "/"); ok {
		return validPeriodPart(before) && validPeriodPart(after)
	}
	return validDuration(value)
}

func validPeriodPart(part string) bool {
	return validDuration(part) || datetimeRE.MatchString(part)
}

func validDuration(value string) bool {
	if value == "P" || strings.HasSuffix(value, "T") {
		return false
	}
	return periodRE.MatchString(value)
}

// validURL implements spec.md §4.6's url grammar: scheme is http or https
// and the hostname contains a dot.
func validURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Hostname(), ".")
}

// ValidateKey checks a key against spec.md §4.6's key grammar: it must
// match `[A-Za-z0-9][A-Za-z0-9_./-]*` and contain no two consecutive
// characters from `_./-`.
func ValidateKey(key string) error {
	if !keyRE.MatchString(key) {
		return &rerr.InvalidKey{Value: key}
	}
	for i := 1; i < len(key); i++ {
		if isSeparator(key[i]) && isSeparator(key[i-1]) {
			return &rerr.InvalidKey{Value: key}
		}
	}
	return nil
}

func isSeparator(b byte) bool {
	switch b {
	case '_', '.', '/', '-':
		return true
	}
	return false
}
