package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAnalytics Kind = "analytics"
	KindHistory   Kind = "history"
	KindFines     Kind = "fines"
)

type TableKind string

const (
	TableStatistics TableKind = "statistics"
	TableDefaulters TableKind = "defaulters"
	TableActivity   TableKind = "activity"
	TableHistory    TableKind = "history"
	TableFines      TableKind = "fines"
)

// Columns holds the fixed header row for each table kind
var Columns = map[TableKind][]string{
	TableStatistics: {"Metric", "Value"},
	TableDefaulters: {"Rank", "Member", "Email", "Fines", "Unpaid"},
	TableActivity:   {"Date", "Member", "Book", "Action"},
	TableHistory:    {"ID", "Date", "Member", "Book", "Action"},
	TableFines:      {"ID", "Created", "Member", "Reason", "Amount", "Paid", "Status"},
}

type TextStyle string

const (
	StyleTitle   TextStyle = "title"
	StyleMeta    TextStyle = "meta"
	StyleHeading TextStyle = "heading"
	StyleNote    TextStyle = "note"
)

// Section is either a paragraph (Table == nil) or a table
type Section struct {
	Style TextStyle
	Text  string
	Table *Table
}

type Table struct {
	Kind   TableKind
	Header []string
	Rows   [][]string
}

// Document is a report ready for rendering. It is built per request and
// never shared.
type Document struct {
	ID          uuid.UUID
	Kind        Kind
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

func newDocument(kind Kind, title string, at time.Time) *Document {
	return &Document{
		ID:          uuid.New(),
		Kind:        kind,
		Title:       title,
		GeneratedAt: at,
	}
}

func (d *Document) addText(style TextStyle, format string, args ...any) {
	d.Sections = append(d.Sections, Section{Style: style, Text: fmt.Sprintf(format, args...)})
}

func (d *Document) addTable(kind TableKind, rows [][]string) {
	d.Sections = append(d.Sections, Section{Table: &Table{Kind: kind, Header: Columns[kind], Rows: rows}})
}

// Tables returns the table sections in document order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, s := range d.Sections {
		if s.Table != nil {
			tables = append(tables, s.Table)
		}
	}
	return tables
}

// Filename is the attachment name used for downloads
func (d *Document) Filename() string {
	return fmt.Sprintf("%s_report_%s.pdf", d.Kind, d.GeneratedAt.UTC().Format("20060102_150405"))
}
