package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"trainingreports/pkg/contracts/domain"
)

// Columns of the summary tables
const (
	ColEmployee         = "employee"
	ColMonthlyTrainings = "monthly_trainings"
	ColAnnualTrainings  = "annual_trainings"
)

// TotalTrainingsColumns is the column order of the total trainings table
var TotalTrainingsColumns = []string{ColEmployee, domain.ColEmail, domain.ColCompany, ColMonthlyTrainings, ColAnnualTrainings}

// TrainerColumns is the column order of the trainer summary table
var TrainerColumns = []string{domain.ColTrainer, ColMonthlyTrainings, ColAnnualTrainings}

// Summarizer builds the per-employee and per-trainer count tables from the
// monthly and the full record sets.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// summaryGroup counts one group; key holds the grouping cell values
type summaryGroup struct {
	key     []string
	monthly int
	annual  int
}

// TotalTrainings counts trainings per (employee, email, company). Groups
// appear in first-appearance order over full, then are stably sorted by the
// monthly count and then the annual count, both descending.
func (s *Summarizer) TotalTrainings(ctx context.Context, monthly, full []*domain.TrainingRecord) *domain.Table {
	key := func(r *domain.TrainingRecord) []string {
		return []string{r.Employee(), r.Email, r.Company}
	}
	groups := summarize(monthly, full, key)

	s.logger.DebugContext(ctx, "total trainings summarized",
		slog.Int("employees", len(groups)),
		slog.Int("monthly_records", len(monthly)),
		slog.Int("annual_records", len(full)))

	return summaryTable(domain.TableNameTotalTrainings, TotalTrainingsColumns, groups)
}

// TrainerSummary counts trainings per trainer with the same ordering rules
// as TotalTrainings. Records without a trainer form their own group.
func (s *Summarizer) TrainerSummary(ctx context.Context, monthly, full []*domain.TrainingRecord) *domain.Table {
	key := func(r *domain.TrainingRecord) []string {
		return []string{r.Trainer}
	}
	groups := summarize(monthly, full, key)

	s.logger.DebugContext(ctx, "trainers summarized",
		slog.Int("trainers", len(groups)))

	return summaryTable(domain.TableNameTrainers, TrainerColumns, groups)
}

func summarize(monthly, full []*domain.TrainingRecord, key func(*domain.TrainingRecord) []string) []*summaryGroup {
	index := make(map[string]*summaryGroup)
	var groups []*summaryGroup

	lookup := func(r *domain.TrainingRecord) *summaryGroup {
		k := key(r)
		id := groupID(k)
		g, ok := index[id]
		if !ok {
			g = &summaryGroup{key: k}
			index[id] = g
			groups = append(groups, g)
		}
		return g
	}

	for _, r := range full {
		lookup(r).annual++
	}
	for _, r := range monthly {
		lookup(r).monthly++
	}
	return groups
}

// groupID encodes a composite key without separator collisions
func groupID(key []string) string {
	var b strings.Builder
	for _, k := range key {
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}

func summaryTable(name string, columns []string, groups []*summaryGroup) *domain.Table {
	t := domain.NewTable(name, columns)
	for _, g := range groups {
		row := append(append([]string(nil), g.key...),
			strconv.Itoa(g.monthly),
			strconv.Itoa(g.annual))
		t.Rows = append(t.Rows, row)
	}

	// counts are the last two columns
	monthlyIdx, annualIdx := len(columns)-2, len(columns)-1
	return t.SortedBy(func(a, b []string) bool {
		am, _ := strconv.Atoi(a[monthlyIdx])
		bm, _ := strconv.Atoi(b[monthlyIdx])
		if am != bm {
			return am > bm
		}
		aa, _ := strconv.Atoi(a[annualIdx])
		ba, _ := strconv.Atoi(b[annualIdx])
		return aa > ba
	})
}
