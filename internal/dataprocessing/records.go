package dataprocessing

import (
	"strconv"
	"strings"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

// BuildRecords turns a renamed report table into training records. The
// emp_names_input key is built from the raw name cells; every other source
// field is cleaned with CleanValue. The calendar cell is also kept uncleaned
// for trainer extraction. A missing or unparsable start_time, or
// an unparsable scheduled_on/end_time, aborts with a PARSING error.
func BuildRecords(t *domain.Table) ([]*domain.TrainingRecord, error) {
	cell := func(row []string, col string) string {
		if idx := t.ColumnIndex(col); idx >= 0 {
			return row[idx]
		}
		return ""
	}

	records := make([]*domain.TrainingRecord, 0, t.Len())
	for i, row := range t.Rows {
		rowNo := i + 1
		rec := &domain.TrainingRecord{
			Row:             rowNo,
			EmpNamesInput:   "|" + cell(row, domain.ColFirstNameSource) + "|" + cell(row, domain.ColLastNameSource) + "|",
			FirstNameSource: CleanValue(cell(row, domain.ColFirstNameSource)),
			LastNameSource:  CleanValue(cell(row, domain.ColLastNameSource)),
			Email:           CleanValue(cell(row, domain.ColEmail)),
			NicknameSource:  CleanValue(cell(row, domain.ColNicknameSource)),
			CompanySource:   CleanValue(cell(row, domain.ColCompanySource)),
			Calendar:        CleanValue(cell(row, domain.ColCalendar)),
			CalendarRaw:     cell(row, domain.ColCalendar),
			Phone:           CleanValue(cell(row, domain.ColPhone)),
			Flags:           []domain.FlagCode{},
		}

		start := CleanValue(cell(row, domain.ColStartTime))
		if start == "" {
			return nil, rowError("missing start_time", nil, t.Name, rowNo, domain.ColStartTime)
		}
		ts, err := ParseTimestamp(start)
		if err != nil {
			return nil, rowError("invalid start_time", err, t.Name, rowNo, domain.ColStartTime)
		}
		rec.StartTime = ts

		if rec.ScheduledOn, err = parseOptionalTimestamp(CleanValue(cell(row, domain.ColScheduledOn))); err != nil {
			return nil, rowError("invalid scheduled_on", err, t.Name, rowNo, domain.ColScheduledOn)
		}
		if rec.EndTime, err = parseOptionalTimestamp(CleanValue(cell(row, domain.ColEndTime))); err != nil {
			return nil, rowError("invalid end_time", err, t.Name, rowNo, domain.ColEndTime)
		}

		records = append(records, rec)
	}
	return records, nil
}

func rowError(msg string, cause error, table string, row int, column string) error {
	return apperrors.NewParsingError(msg, cause).
		WithContext("table", table).
		WithContext("row", row).
		WithContext("column", column)
}

// RecordsTable renders records as a table with domain.TrainingColumns
func RecordsTable(name string, records []*domain.TrainingRecord, c *config.Collection) *domain.Table {
	t := domain.NewTable(name, domain.TrainingColumns)
	t.Rows = make([][]string, 0, len(records))
	for _, r := range records {
		t.Rows = append(t.Rows, recordRow(r, c))
	}
	return t
}

func recordRow(r *domain.TrainingRecord, c *config.Collection) []string {
	var scheduledOn, endTime string
	if r.ScheduledOn != nil {
		scheduledOn = r.ScheduledOn.Format(c.DatetimeFormat())
	}
	if r.EndTime != nil {
		endTime = r.EndTime.Format(c.DatetimeFormat())
	}

	var contractStart, contractEnd, limit string
	if l := r.Limitation; l != nil {
		if l.ContractStart != nil {
			contractStart = l.ContractStart.Format(c.DateFormat())
		}
		if l.ContractEnd != nil {
			contractEnd = l.ContractEnd.Format(c.DateFormat())
		}
		limit = strconv.Itoa(l.TrainingsLimit)
	}

	values := map[string]string{
		domain.ColFirstNameSource:  r.FirstNameSource,
		domain.ColLastNameSource:   r.LastNameSource,
		domain.ColEmpNamesInput:    r.EmpNamesInput,
		domain.ColFirstName:        r.FirstName,
		domain.ColLastName:         r.LastName,
		domain.ColNicknameSource:   r.NicknameSource,
		domain.ColNickname:         r.Nickname,
		domain.ColEmail:            r.Email,
		domain.ColCompanySource:    r.CompanySource,
		domain.ColCompany:          r.Company,
		domain.ColDeliveryMode:     string(r.DeliveryMode),
		domain.ColCalendar:         r.Calendar,
		domain.ColTrainer:          r.Trainer,
		domain.ColPhone:            r.Phone,
		domain.ColPhoneValid:       strconv.FormatBool(r.PhoneValid),
		domain.ColScheduledOn:      scheduledOn,
		domain.ColStartTime:        r.StartTime.Format(c.DatetimeFormat()),
		domain.ColEndTime:          endTime,
		domain.ColContractStart:    contractStart,
		domain.ColContractEnd:      contractEnd,
		domain.ColTrainingsLimit:   limit,
		domain.ColHasLimitation:    strconv.FormatBool(r.Limitation != nil),
		domain.ColEmpCompany:       r.EmpCompany,
		domain.ColEmpTrainings:     strconv.Itoa(r.EmpTrainings),
		domain.ColTrainingNo:       strconv.Itoa(r.TrainingNo),
		domain.ColActiveContract:   strconv.FormatBool(r.ActiveContract),
		domain.ColMonth:            r.Month,
		domain.ColYear:             yearString(r.Year),
		domain.ColDayName:          r.DayName,
		domain.ColTrainingDatetime: r.TrainingDatetime,
		domain.ColScheduledDate:    r.ScheduledDate,
		domain.ColTrainingEnd:      r.TrainingEnd,
		domain.ColFlags:            domain.JoinFlags(r.Flags),
	}
	row := make([]string, len(domain.TrainingColumns))
	for i, col := range domain.TrainingColumns {
		row[i] = values[col]
	}
	return row
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// employeeKey groups trainings per person and company
func employeeKey(r *domain.TrainingRecord) string {
	return strings.TrimSpace(r.Employee()) + "|" + r.Company
}
