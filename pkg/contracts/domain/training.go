package domain

import (
	"strings"
	"time"
)

// DeliveryMode tells whether a training was held in person or online
type DeliveryMode string

const (
	DeliveryModeInPerson DeliveryMode = "IN PERSON"
	DeliveryModeOnline   DeliveryMode = "ONLINE"
	DeliveryModeUnknown  DeliveryMode = ""
)

// TrainingRecord represents one row of the attendance report: a single
// attendee of a single training event, together with every derived field.
type TrainingRecord struct {
	// Row is the 1-based data row number in the source file
	Row int `json:"row"`

	// Source fields (after the rename step)
	FirstNameSource string     `json:"f_name"`
	LastNameSource  string     `json:"l_name"`
	Email           string     `json:"email" validate:"omitempty,email"`
	NicknameSource  string     `json:"nickname_src,omitempty"`
	CompanySource   string     `json:"company_src"`
	ScheduledOn     *time.Time `json:"scheduled_on,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Calendar        string     `json:"calendar,omitempty"`
	CalendarRaw     string     `json:"-"`
	Phone           string     `json:"phone,omitempty"`

	// Normalized fields
	EmpNamesInput string       `json:"emp_names_input"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Nickname      string       `json:"nickname"`
	Company       string       `json:"company"`
	DeliveryMode  DeliveryMode `json:"delivery_mode"`
	Trainer       string       `json:"trainer"`
	PhoneValid    bool         `json:"phone_valid"`
	Flags         []FlagCode   `json:"flags"`

	// Limitation fields from the left join; nil when the company has no entry
	Limitation *CompanyLimitation `json:"limitation,omitempty"`

	// Per-employee counters
	EmpCompany   string `json:"emp_company"`
	EmpTrainings int    `json:"emp_trainings"`
	TrainingNo   int    `json:"training_no"`

	ActiveContract bool `json:"active_contract"`

	// Calendar fields
	Month            string `json:"month"`
	Year             int    `json:"year"`
	DayName          string `json:"dayname"`
	TrainingDatetime string `json:"training_datetime"`
	ScheduledDate    string `json:"scheduled_date"`
	TrainingEnd      string `json:"training_end"`
}

// Employee returns the display name used to group trainings per person
func (r *TrainingRecord) Employee() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// AddFlag raises a flag on the record once; repeated codes are ignored
func (r *TrainingRecord) AddFlag(code FlagCode) {
	for _, existing := range r.Flags {
		if existing == code {
			return
		}
	}
	r.Flags = append(r.Flags, code)
}

// HasFlag reports whether the record carries the given flag
func (r *TrainingRecord) HasFlag(code FlagCode) bool {
	for _, existing := range r.Flags {
		if existing == code {
			return true
		}
	}
	return false
}

// Column names of the raw report tables
const (
	ColFirstNameSource  = "f_name"
	ColLastNameSource   = "l_name"
	ColEmpNamesInput    = "emp_names_input"
	ColFirstName        = "first_name"
	ColLastName         = "last_name"
	ColNicknameSource   = "nickname_src"
	ColNickname         = "nickname"
	ColEmail            = "email"
	ColCompanySource    = "company_src"
	ColCompany          = "company"
	ColDeliveryMode     = "delivery_mode"
	ColCalendar         = "calendar"
	ColTrainer          = "trainer"
	ColPhone            = "phone"
	ColPhoneValid       = "phone_valid"
	ColScheduledOn      = "scheduled_on"
	ColStartTime        = "start_time"
	ColEndTime          = "end_time"
	ColContractStart    = "contract_start"
	ColContractEnd      = "contract_end"
	ColTrainingsLimit   = "trainings_limit"
	ColHasLimitation    = "has_limitation"
	ColEmpCompany       = "emp_company"
	ColEmpTrainings     = "emp_trainings"
	ColTrainingNo       = "training_no"
	ColActiveContract   = "active_contract"
	ColMonth            = "month"
	ColYear             = "year"
	ColDayName          = "dayname"
	ColTrainingDatetime = "training_datetime"
	ColScheduledDate    = "scheduled_date"
	ColTrainingEnd      = "training_end"
	ColFlags            = "flags"
)

// TrainingColumns is the column order of the raw full and monthly reports
var TrainingColumns = []string{
	ColFirstNameSource,
	ColLastNameSource,
	ColEmpNamesInput,
	ColFirstName,
	ColLastName,
	ColNicknameSource,
	ColNickname,
	ColEmail,
	ColCompanySource,
	ColCompany,
	ColDeliveryMode,
	ColCalendar,
	ColTrainer,
	ColPhone,
	ColPhoneValid,
	ColScheduledOn,
	ColStartTime,
	ColEndTime,
	ColContractStart,
	ColContractEnd,
	ColTrainingsLimit,
	ColHasLimitation,
	ColEmpCompany,
	ColEmpTrainings,
	ColTrainingNo,
	ColActiveContract,
	ColMonth,
	ColYear,
	ColDayName,
	ColTrainingDatetime,
	ColScheduledDate,
	ColTrainingEnd,
	ColFlags,
}

// IsTrainingColumn reports whether name is one of TrainingColumns
func IsTrainingColumn(name string) bool {
	for _, c := range TrainingColumns {
		if c == name {
			return true
		}
	}
	return false
}
