package dataprocessing

import (
	"sort"

	"trainingreports/pkg/contracts/domain"
)

// JoinLimitations left-joins records to limitations on the company key.
// Every record is kept; unmatched records get a nil Limitation. It returns
// the number of matched records.
func JoinLimitations(records []*domain.TrainingRecord, lims []domain.CompanyLimitation) int {
	index := make(map[string]*domain.CompanyLimitation, len(lims))
	for i := range lims {
		if _, ok := index[lims[i].Company]; !ok {
			index[lims[i].Company] = &lims[i]
		}
	}

	matched := 0
	for _, r := range records {
		r.Limitation = index[r.Company]
		if r.Limitation != nil {
			matched++
		}
	}
	return matched
}

// CountPerEmployee groups records by employee and company, sets the group
// size and the 1-based ordinal of each training by start time, and flags
// OVER_LIMIT once the ordinal exceeds a positive company limit.
func CountPerEmployee(records []*domain.TrainingRecord) {
	groups := make(map[string][]*domain.TrainingRecord)
	var order []string
	for _, r := range records {
		key := employeeKey(r)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime.Before(group[j].StartTime)
		})

		for i, r := range group {
			r.EmpCompany = key
			r.EmpTrainings = len(group)
			r.TrainingNo = i + 1
			if r.Limitation != nil && r.Limitation.TrainingsLimit > 0 && r.TrainingNo > r.Limitation.TrainingsLimit {
				r.AddFlag(domain.FlagOverLimit)
			}
		}
	}
}
