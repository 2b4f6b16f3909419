package report

import (
	"fmt"
	"strconv"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/utils"

	"github.com/shopspring/decimal"
)

// Ellipsis marks a truncated cell
const Ellipsis = "..."

// Per-table rune budgets for free-text cells
const (
	activityTextBudget  = 20
	defaulterNameBudget = 20
	exportTextBudget    = 25
)

// Truncate cuts s to budget runes and appends Ellipsis when it is longer
func Truncate(s string, budget int) string {
	r := []rune(s)
	if budget <= 0 || len(r) <= budget {
		return s
	}
	return string(r[:budget]) + Ellipsis
}

type Builder struct {
	currency string
	now      func() time.Time
}

func NewBuilder(currencySymbol string) *Builder {
	return &Builder{currency: currencySymbol, now: time.Now}
}

func (b *Builder) start(kind Kind, title string) *Document {
	doc := newDocument(kind, title, b.now().UTC())
	doc.addText(StyleTitle, "%s", title)
	doc.addText(StyleMeta, "Generated: %s", utils.FormatTimestamp(doc.GeneratedAt))
	return doc
}

func (b *Builder) money(d decimal.Decimal) string {
	return utils.FormatMoney(d, b.currency)
}

// Analytics lays out a snapshot as statistics, defaulters and recent
// activity tables.
func (b *Builder) Analytics(snap *domain.Snapshot) *Document {
	doc := b.start(KindAnalytics, "Library Analytics Report")

	doc.addText(StyleHeading, "Summary Statistics")
	doc.addTable(TableStatistics, [][]string{
		{"Total Books", strconv.FormatInt(snap.TotalBooks, 10)},
		{"Available Books", strconv.FormatInt(snap.AvailableBooks, 10)},
		{"Borrowed Books", strconv.FormatInt(snap.BorrowedBooks, 10)},
		{"Total Members", strconv.FormatInt(snap.TotalMembers, 10)},
		{"Total Fines", b.money(snap.TotalFines)},
		{"Paid Fines", b.money(snap.PaidFines)},
		{"Unpaid Fines", b.money(snap.UnpaidFines)},
		{"Collection Rate", snap.CollectionRate.StringFixed(2) + "%"},
	})

	doc.addText(StyleHeading, "Top Defaulters")
	if len(snap.TopDefaulters) == 0 {
		doc.addText(StyleNote, "No members have unpaid fines.")
	} else {
		rows := make([][]string, 0, len(snap.TopDefaulters))
		for i, d := range snap.TopDefaulters {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				Truncate(d.Name, defaulterNameBudget),
				d.Email,
				strconv.FormatInt(d.FineCount, 10),
				b.money(d.UnpaidTotal),
			})
		}
		doc.addTable(TableDefaulters, rows)
	}

	doc.addText(StyleHeading, "Recent Activity")
	if len(snap.RecentActivity) == 0 {
		doc.addText(StyleNote, "No borrow or return activity recorded.")
	} else {
		rows := make([][]string, 0, len(snap.RecentActivity))
		for _, h := range snap.RecentActivity {
			rows = append(rows, []string{
				utils.FormatTimestamp(h.Timestamp),
				Truncate(h.MemberName, activityTextBudget),
				Truncate(h.BookTitle, activityTextBudget),
				string(h.Action),
			})
		}
		doc.addTable(TableActivity, rows)
	}

	return doc
}

// HistoryExport lists history rows in the order given. An empty input
// returns ErrNoData.
func (b *Builder) HistoryExport(entries []domain.History, f domain.HistoryFilter) (*Document, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no history for %s", domain.ErrNoData, describePeriod(f.From, f.Until))
	}

	doc := b.start(KindHistory, "Borrow and Return History")
	action := "All"
	if f.Action != "" {
		action = string(f.Action)
	}
	doc.addText(StyleMeta, "Period: %s", describePeriod(f.From, f.Until))
	doc.addText(StyleMeta, "Action: %s", action)
	doc.addText(StyleMeta, "Records: %d", len(entries))

	rows := make([][]string, 0, len(entries))
	for _, h := range entries {
		rows = append(rows, []string{
			strconv.Itoa(int(h.ID)),
			utils.FormatTimestamp(h.Timestamp),
			Truncate(h.MemberName, exportTextBudget),
			Truncate(h.BookTitle, exportTextBudget),
			string(h.Action),
		})
	}
	doc.addTable(TableHistory, rows)
	return doc, nil
}

// FinesExport lists fines with their payment state. An empty input
// returns ErrNoData.
func (b *Builder) FinesExport(fines []domain.Fine, f domain.FineFilter) (*Document, error) {
	if len(fines) == 0 {
		return nil, fmt.Errorf("%w: no fines for %s", domain.ErrNoData, describePeriod(f.From, f.Until))
	}

	doc := b.start(KindFines, "Fines Report")
	status := "All"
	if f.Status != domain.FineStatusAll {
		status = string(f.Status)
	}
	doc.addText(StyleMeta, "Period: %s", describePeriod(f.From, f.Until))
	doc.addText(StyleMeta, "Status: %s", status)

	rows := make([][]string, 0, len(fines))
	outstanding := decimal.Zero
	for i := range fines {
		fine := &fines[i]
		state := "Unpaid"
		if fine.Paid {
			state = "Paid"
		}
		outstanding = outstanding.Add(fine.Outstanding())
		rows = append(rows, []string{
			strconv.Itoa(int(fine.ID)),
			utils.FormatDate(fine.CreatedAt),
			Truncate(fine.MemberName, exportTextBudget),
			Truncate(fine.Reason, exportTextBudget),
			b.money(fine.Amount),
			b.money(fine.AmountPaid),
			state,
		})
	}
	doc.addText(StyleMeta, "Records: %d, outstanding %s", len(fines), b.money(outstanding))
	doc.addTable(TableFines, rows)
	return doc, nil
}
