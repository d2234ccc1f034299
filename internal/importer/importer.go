// Package importer registers employees in bulk from a CSV sheet.
//
// Files are ';'-separated and latin-1 encoded, as exported by the payroll
// spreadsheet.  The header row must name a code, a name and a password
// column; both the Portuguese headers (MATRICULA, COLABORADOR, SENHA) and
// their English aliases are accepted.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

// Store is what the importer needs from the employee directory.
type Store interface {
	ExistingCodes(ctx context.Context) (map[string]bool, error)
	CreateEmployee(ctx context.Context, e model.Employee) error
}

// HashFunc turns a plain password into its stored form.
type HashFunc func(plain string) (string, error)

// Report summarises one import run.  Errors are human readable and refer
// to spreadsheet line numbers (the header is line 1).
type Report struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errored int      `json:"errored"`
	Errors  []string `json:"errors"`
}

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("required columns MATRICULA, COLABORADOR and SENHA not found in file")

// utf8BOMAsLatin1 is how a UTF-8 byte order mark reads after latin-1 decoding.
const utf8BOMAsLatin1 = "\u00ef\u00bb\u00bf"

var aliases = map[string]string{
	"MATRICULA":   "code",
	"CODE":        "code",
	"COLABORADOR": "name",
	"NAME":        "name",
	"SENHA":       "password",
	"PASSWORD":    "password",
}

// Importer reads employee sheets into a Store.
type Importer struct {
	Store Store
	Hash  HashFunc
}

func New(store Store, hash HashFunc) *Importer {
	return &Importer{Store: store, Hash: hash}
}

// Import reads r and creates every new employee under companyID.  Codes
// already registered, or repeated earlier in the file, are skipped.  Row
// problems are collected in the report; only unreadable input or a bad
// header abort the run.
func (im *Importer) Import(ctx context.Context, r io.Reader, companyID uint64) (Report, error) {
	rep := Report{Errors: []string{}}

	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return rep, ErrMissingColumns
	}
	if err != nil {
		return rep, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	if len(cols) < 3 {
		return rep, ErrMissingColumns
	}

	existing, err := im.Store.ExistingCodes(ctx)
	if err != nil {
		return rep, fmt.Errorf("load existing codes: %w", err)
	}

	for index := 0; ; index++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line := index + 2
		if err != nil {
			rep.fail(line, err.Error())
			continue
		}
		code := field(rec, cols["code"])
		name := field(rec, cols["name"])
		password := field(rec, cols["password"])

		if code != "" && existing[code] {
			rep.Skipped++
			continue
		}
		if code == "" || name == "" || password == "" {
			rep.fail(line, "incomplete data.")
			continue
		}
		hash, err := im.Hash(password)
		if err != nil {
			rep.fail(line, err.Error())
			continue
		}
		cid := companyID
		err = im.Store.CreateEmployee(ctx, model.Employee{
			Code:         code,
			Name:         name,
			PasswordHash: hash,
			Role:         model.RoleEmployee,
			CompanyID:    &cid,
		})
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			rep.Skipped++
		case err != nil:
			rep.fail(line, err.Error())
			continue
		default:
			rep.Created++
		}
		existing[code] = true
	}
	return rep, nil
}

func (rep *Report) fail(line int, msg string) {
	rep.Errored++
	rep.Errors = append(rep.Errors, fmt.Sprintf("Line %d: %s", line, msg))
}

func columnIndex(header []string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		h = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, utf8BOMAsLatin1)))
		if key, ok := aliases[h]; ok {
			if _, seen := cols[key]; !seen {
				cols[key] = i
			}
		}
	}
	return cols
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
