package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// UsageReportData holds display-ready strings; formatting happens upstream.
type UsageReportData struct {
	Title       string
	ReportID    string
	UserID      string
	Period      string
	GeneratedAt string

	Summary    []SummaryLine
	Categories []CategoryLine
	Notes      []string
}

type SummaryLine struct {
	Label string
	Value string
}

type CategoryLine struct {
	Category string
	Amount   string
	Share    string
	Cost     string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateUsageReport(ctx context.Context, data UsageReportData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	title := data.Title
	if title == "" {
		title = "Token usage report"
	}
	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("User: "+data.UserID, props.Text{Top: 0}),
			text.New("Period: "+data.Period, props.Text{Top: 4}),
			text.New("Generated: "+data.GeneratedAt, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Report "+data.ReportID, props.Text{Size: 8, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Summary", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)
	for _, entry := range data.Summary {
		m.AddRow(7,
			text.NewCol(6, entry.Label, props.Text{Size: 9}),
			text.NewCol(6, entry.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if len(data.Categories) > 0 {
		m.AddRow(12,
			text.NewCol(12, "Usage by category", props.Text{Size: 12, Style: fontstyle.Bold, Top: 5}),
		)
		m.AddRow(8,
			text.NewCol(5, "Category", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(3, "Tokens", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Share", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Cost", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		m.AddRow(1, line.NewCol(12))
		for _, item := range data.Categories {
			m.AddRow(7,
				text.NewCol(5, item.Category, props.Text{Size: 9}),
				text.NewCol(3, item.Amount, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, item.Share, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, item.Cost, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	for i, note := range data.Notes {
		top := 0.0
		if i == 0 {
			top = 4
		}
		m.AddRow(8,
			text.NewCol(12, note, props.Text{Size: 9, Style: fontstyle.Italic, Top: top}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
