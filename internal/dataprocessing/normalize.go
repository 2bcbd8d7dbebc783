package dataprocessing

import (
	"trainingreports/internal/config"
	"trainingreports/internal/validation"
	"trainingreports/pkg/contracts/domain"
)

// Normalize derives the transliterated names, nickname, company key and
// delivery mode of every record. A record without a recognizable delivery
// mode is flagged UNKNOWN_MODE.
func Normalize(records []*domain.TrainingRecord) {
	for _, r := range records {
		r.FirstName = Transliterate(r.FirstNameSource)
		r.LastName = Transliterate(r.LastNameSource)
		r.Nickname = DeriveNickname(r.NicknameSource, r.Email, r.FirstName)
		r.Company, r.DeliveryMode = ExtractCompany(r.CompanySource)
		if r.DeliveryMode == domain.DeliveryModeUnknown {
			r.AddFlag(domain.FlagUnknownMode)
		}
	}
}

// ValidateFields checks phone numbers and emails and extracts the trainer.
// Problems never fail the run; they raise INVALID_PHONE, INVALID_EMAIL and
// NO_TRAINER, in that order.
func ValidateFields(records []*domain.TrainingRecord, c *config.Collection) {
	for _, r := range records {
		if r.Phone != "" {
			r.Phone, r.PhoneValid = NormalizePhone(r.Phone, c.PhonePattern(), c.PhonePrefix())
			if !r.PhoneValid {
				r.AddFlag(domain.FlagInvalidPhone)
			}
		}

		if r.Email != "" && !validation.IsEmail(r.Email) {
			r.AddFlag(domain.FlagInvalidEmail)
		}

		calendar := r.CalendarRaw
		if calendar == "" {
			calendar = r.Calendar
		}
		r.Trainer = ExtractTrainer(calendar)
		if r.Trainer == "" {
			r.AddFlag(domain.FlagNoTrainer)
		}
	}
}

// CheckActiveContracts sets active_contract from the joined contract
// window. Records without a limitation are flagged NO_CONTRACT; records
// outside their window are flagged INACTIVE_CONTRACT. Both are kept.
func CheckActiveContracts(records []*domain.TrainingRecord) {
	for _, r := range records {
		switch {
		case r.Limitation == nil:
			r.ActiveContract = false
			r.AddFlag(domain.FlagNoContract)
		case r.Limitation.Covers(r.StartTime):
			r.ActiveContract = true
		default:
			r.ActiveContract = false
			r.AddFlag(domain.FlagInactiveContract)
		}
	}
}

// CalendarFields fills the month name, year, weekday name and the
// formatted datetime and date fields
func CalendarFields(records []*domain.TrainingRecord, c *config.Collection) {
	for _, r := range records {
		r.Month = r.StartTime.Month().String()
		r.Year = r.StartTime.Year()
		r.DayName = r.StartTime.Weekday().String()
		r.TrainingDatetime = r.StartTime.Format(c.DatetimeFormat())

		r.ScheduledDate = ""
		if r.ScheduledOn != nil {
			r.ScheduledDate = r.ScheduledOn.Format(c.DateFormat())
		}
		r.TrainingEnd = ""
		if r.EndTime != nil {
			r.TrainingEnd = r.EndTime.Format(c.DateFormat())
		}
	}
}
