package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"rollcall-backend/shared/utils/phone"
)

// RosterSheetName is the spreadsheet tab expected to hold importable
// contacts. Matching is case-insensitive.
const RosterSheetName = "Main Roster"

// Contact is one importable roster entry.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var (
	ErrInvalidWorkbook = errors.New("invalid Excel file")
	ErrNoContacts      = errors.New("no valid contacts found in the Excel file")
)

// SheetNotFoundError reports the tabs that do exist so the admin can fix
// the workbook instead of guessing.
type SheetNotFoundError struct {
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("Sheet %q not found in the Excel file. Available sheets: %s",
		RosterSheetName, strings.Join(e.Available, ", "))
}

// ParseRoster extracts {name, phone} contacts from the Main Roster sheet
// of an uploaded workbook. The first row is the header row; name and phone
// columns are located by fuzzy header match, rows missing either value are
// dropped, and phone numbers are normalized before they are returned.
func ParseRoster(r io.Reader) ([]Contact, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrInvalidWorkbook
	}
	defer func() { _ = workbook.Close() }()

	sheetName := findRosterSheet(workbook)
	if sheetName == "" {
		return nil, &SheetNotFoundError{Available: workbook.GetSheetList()}
	}

	// GetRows yields formula results and rich-text cells as display text.
	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, ErrInvalidWorkbook
	}
	if len(rows) < 2 {
		return nil, ErrNoContacts
	}

	headers := rows[0]
	nameCol := findColumn(headers, "name", "first", "last")
	phoneCol := findColumn(headers, "phone", "number", "mobile")
	if nameCol < 0 || phoneCol < 0 {
		return nil, ErrNoContacts
	}

	var contacts []Contact
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cellValue(row, nameCol))
		rawPhone := strings.TrimSpace(cellValue(row, phoneCol))
		if name == "" || rawPhone == "" {
			continue
		}

		contacts = append(contacts, Contact{
			Name:  name,
			Phone: phone.Normalize(rawPhone),
		})
	}

	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	return contacts, nil
}

// findRosterSheet locates the Main Roster tab case-insensitively
func findRosterSheet(workbook *excelize.File) string {
	for _, name := range workbook.GetSheetList() {
		if strings.EqualFold(name, RosterSheetName) {
			return name
		}
	}
	return ""
}

// findColumn returns the index of the first header containing any of the
// given fragments, or -1
func findColumn(headers []string, fragments ...string) int {
	for i, header := range headers {
		lowered := strings.ToLower(strings.TrimSpace(header))
		for _, fragment := range fragments {
			if strings.Contains(lowered, fragment) {
				return i
			}
		}
	}
	return -1
}

// cellValue reads a cell defensively; GetRows trims trailing empty cells
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
