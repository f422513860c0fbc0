package browse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/HerbHall/winegallery/internal/catalog"
	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/quiz"
	"github.com/HerbHall/winegallery/pkg/models"
)

const maxTitle = 44

// RenderPage writes one gallery page as a table followed by the page
// window.
func RenderPage(w io.Writer, res catalog.QueryResult) {
	p := res.Page
	if p.Total == 0 {
		fmt.Fprintln(w, "No wines match the current filters.")
		return
	}
	RenderTable(w, p.Items)
	fmt.Fprintf(w, "Page %d of %d (%d wines)  %s\n", p.Number, p.TotalPages, p.Total, RenderWindow(res.Window))
}

// RenderTable writes records as an aligned table.
func RenderTable(w io.Writer, records []models.Wine) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No wines.")
		return
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOUNTRY\tTYPE\tPRICE\tPOINTS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID(), truncate(r.Title(), maxTitle), r.Country(), r.WineType(),
			formatPrice(r), dash(r.Get(models.FieldPoints)))
	}
	tw.Flush()
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// RenderWindow formats page links as "1 ... 4 [5] 6 ... 12".
func RenderWindow(links []query.PageLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Ellipsis:
			parts = append(parts, "...")
		case l.Current:
			parts = append(parts, "["+strconv.Itoa(l.Number)+"]")
		default:
			parts = append(parts, strconv.Itoa(l.Number))
		}
	}
	return strings.Join(parts, " ")
}

// detailFields is the display order of the detail view.
var detailFields = []struct{ label, field string }{
	{"Country", models.FieldCountry},
	{"Region", models.FieldRegion},
	{"Variety", models.FieldVariety},
	{"Vintage", models.FieldYear},
	{"Type", models.FieldWineType},
	{"Style", models.FieldStyle},
	{"Winery", models.FieldWinery},
	{"Points", models.FieldPoints},
	{"Flavors", models.FieldFlavorTags},
	{"Taster", models.FieldTasterName},
}

// RenderWine writes the detail view of one record. Blank fields are
// omitted.
func RenderWine(w io.Writer, r models.Wine) {
	fmt.Fprintln(w, r.Title())
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(r.Title()))))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Price:\t%s\n", formatPrice(r))
	for _, f := range detailFields {
		if r.Has(f.field) {
			fmt.Fprintf(tw, "%s:\t%s\n", f.label, r.Get(f.field))
		}
	}
	tw.Flush()
	if d := r.Get(models.FieldDescription); d != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, d)
	}
}

// RenderFacets writes the filter vocabularies.
func RenderFacets(w io.Writer, f catalog.Facets) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Countries:\t%s\n", strings.Join(f.Countries, ", "))
	fmt.Fprintf(tw, "Types:\t%s\n", strings.Join(f.TypeOptions, ", "))
	fmt.Fprintf(tw, "Styles:\t%s\n", strings.Join(f.Styles, ", "))
	fmt.Fprintf(tw, "Years:\t%s\n", strings.Join(f.Years, ", "))
	fmt.Fprintf(tw, "Flavors:\t%s\n", strings.Join(f.FlavorTags, ", "))
	fmt.Fprintf(tw, "Price:\t%.0f-%.0f (step %.0f)\n", f.Slider.Min, f.Slider.Max, f.Slider.Step)
	keys := make([]string, 0, len(f.SortOptions))
	for _, o := range f.SortOptions {
		if o.Key != query.SortNone {
			keys = append(keys, string(o.Key))
		}
	}
	fmt.Fprintf(tw, "Sort:\t%s\n", strings.Join(keys, ", "))
	tw.Flush()
}

// RenderFilter summarizes the active selections on one line.
func RenderFilter(w io.Writer, s query.State) {
	var parts []string
	f := s.Filter
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Query))
	}
	for _, sel := range []struct {
		name   string
		values []string
	}{
		{"country", f.Countries},
		{"type", f.Types},
		{"year", f.Years},
		{"style", f.Styles},
		{"tag", f.FlavorTags},
	} {
		if len(sel.values) > 0 {
			parts = append(parts, sel.name+"="+strings.Join(sel.values, "|"))
		}
	}
	parts = append(parts, "price="+formatRange(f.Price))
	if s.Sort != query.SortNone {
		parts = append(parts, "sort="+string(s.Sort))
	}
	fmt.Fprintln(w, "Filters: "+strings.Join(parts, " "))
}

// RenderQuestion writes a question with numbered options.
func RenderQuestion(w io.Writer, q quiz.Question) {
	fmt.Fprintf(w, "Question %d of %d: %s\n", q.Ordinal, quiz.NumQuestions, q.Text)
	for i, o := range q.Options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, o)
	}
}

// RenderRecommendation writes the derived filter and the shortlist.
func RenderRecommendation(w io.Writer, res quiz.Result) {
	RenderFilter(w, query.State{Filter: res.Filter})
	if len(res.Shortlist) == 0 {
		fmt.Fprintln(w, "No wines match your answers.")
		return
	}
	fmt.Fprintf(w, "Recommended wines (%d):\n", len(res.Shortlist))
	RenderTable(w, res.Shortlist)
}

func formatPrice(r models.Wine) string {
	p, ok := r.Price()
	if !ok {
		return "-"
	}
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}

func formatRange(r query.PriceRange) string {
	lo := strconv.FormatFloat(r.Min, 'f', -1, 64)
	if r.Unbounded() {
		return lo + "+"
	}
	return lo + "-" + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
