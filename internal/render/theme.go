package render

import "library-fines-backend/internal/report"

type rgb struct{ R, G, B int }

// Theme is the fixed page and typography setup for every report
type Theme struct {
	Orientation string
	PageSize    string
	Margin      float64
	FontFamily  string

	TitleSize   float64
	HeadingSize float64
	TextSize    float64
	TableSize   float64
	RowHeight   float64

	GridColor  rgb
	HeaderText rgb
	StripeFill rgb
}

// TableStyle is the per-kind part of the theme. Widths are millimetres and
// add up to the printable width of an A4 portrait page.
type TableStyle struct {
	Widths     []float64
	HeaderFill rgb
}

var DefaultTheme = Theme{
	Orientation: "P",
	PageSize:    "A4",
	Margin:      15,
	FontFamily:  "Helvetica",

	TitleSize:   18,
	HeadingSize: 13,
	TextSize:    10,
	TableSize:   9,
	RowHeight:   7,

	GridColor:  rgb{190, 190, 190},
	HeaderText: rgb{255, 255, 255},
	StripeFill: rgb{245, 245, 245},
}

var TableStyles = map[report.TableKind]TableStyle{
	report.TableStatistics: {Widths: []float64{100, 80}, HeaderFill: rgb{52, 73, 94}},
	report.TableDefaulters: {Widths: []float64{15, 55, 55, 20, 35}, HeaderFill: rgb{192, 57, 43}},
	report.TableActivity:   {Widths: []float64{45, 50, 55, 30}, HeaderFill: rgb{39, 174, 96}},
	report.TableHistory:    {Widths: []float64{15, 40, 50, 50, 25}, HeaderFill: rgb{41, 128, 185}},
	report.TableFines:      {Widths: []float64{12, 25, 38, 45, 22, 22, 16}, HeaderFill: rgb{211, 84, 0}},
}
