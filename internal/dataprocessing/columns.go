package dataprocessing

import (
	"strings"
	"unicode"

	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

// ReportHeaderAliases maps normalized report headers to canonical column
// names. Keys are lowercase with every non-alphanumeric rune removed.
var ReportHeaderAliases = map[string]string{
	"fname":              domain.ColFirstNameSource,
	"firstname":          domain.ColFirstNameSource,
	"inviteefirstname":   domain.ColFirstNameSource,
	"lname":              domain.ColLastNameSource,
	"lastname":           domain.ColLastNameSource,
	"inviteelastname":    domain.ColLastNameSource,
	"email":              domain.ColEmail,
	"emailaddress":       domain.ColEmail,
	"inviteeemail":       domain.ColEmail,
	"nickname":           domain.ColNicknameSource,
	"nicknamesrc":        domain.ColNicknameSource,
	"preferredname":      domain.ColNicknameSource,
	"companysrc":         domain.ColCompanySource,
	"company":            domain.ColCompanySource,
	"eventtypename":      domain.ColCompanySource,
	"eventname":          domain.ColCompanySource,
	"scheduledon":        domain.ColScheduledOn,
	"scheduledat":        domain.ColScheduledOn,
	"starttime":          domain.ColStartTime,
	"startdatetime":      domain.ColStartTime,
	"endtime":            domain.ColEndTime,
	"enddatetime":        domain.ColEndTime,
	"calendar":           domain.ColCalendar,
	"assignedto":         domain.ColCalendar,
	"eventdescription":   domain.ColCalendar,
	"phone":              domain.ColPhone,
	"phonenumber":        domain.ColPhone,
	"mobile":             domain.ColPhone,
	"textremindernumber": domain.ColPhone,
}

// ReportRequiredColumns must be present after renaming the report
var ReportRequiredColumns = []string{
	domain.ColFirstNameSource,
	domain.ColLastNameSource,
	domain.ColCompanySource,
	domain.ColStartTime,
}

// LimitationHeaderAliases maps normalized limitations headers to canonical names
var LimitationHeaderAliases = map[string]string{
	"company":           domain.ColCompany,
	"companyname":       domain.ColCompany,
	"client":            domain.ColCompany,
	"contractstart":     domain.ColContractStart,
	"contractstartdate": domain.ColContractStart,
	"startdate":         domain.ColContractStart,
	"contractend":       domain.ColContractEnd,
	"contractenddate":   domain.ColContractEnd,
	"enddate":           domain.ColContractEnd,
	"trainingslimit":    domain.ColTrainingsLimit,
	"traininglimit":     domain.ColTrainingsLimit,
	"limit":             domain.ColTrainingsLimit,
	"maxtrainings":      domain.ColTrainingsLimit,
	"notes":             domain.ColNotes,
	"note":              domain.ColNotes,
	"comment":           domain.ColNotes,
	"comments":          domain.ColNotes,
}

// LimitationRequiredColumns must be present after renaming the limitations table
var LimitationRequiredColumns = []string{domain.ColCompany}

// RenameColumns returns a copy of t whose headers are replaced by their
// canonical names. Unknown headers are kept as found. When two headers map
// to the same name the first one wins and the later one keeps its header.
func RenameColumns(t *domain.Table, aliases map[string]string, required []string) (*domain.Table, error) {
	columns := make([]string, len(t.Columns))
	used := make(map[string]bool, len(t.Columns))

	for i, header := range t.Columns {
		columns[i] = header
		target, ok := aliases[normalizeHeader(header)]
		if !ok || used[target] {
			continue
		}
		columns[i] = target
		used[target] = true
	}

	var missing []string
	for _, col := range required {
		if !used[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError("missing required columns", nil).
			WithContext("table", t.Name).
			WithContext("columns", strings.Join(missing, ","))
	}

	out := domain.NewTable(t.Name, columns)
	out.Rows = t.Rows
	return out, nil
}

// normalizeHeader lowercases a header and drops everything but letters and digits
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
