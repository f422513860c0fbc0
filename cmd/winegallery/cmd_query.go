package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/HerbHall/winegallery/internal/browse"
	"github.com/HerbHall/winegallery/internal/catalog"
)

var (
	queryParams catalog.SearchParams
	queryMin    float64
	queryMax    float64
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run one gallery query and print the page",
	Long: `Filter, sort and page the catalog once and print the result.

Example:
  winegallery query --country Italy --type Red --sort price-high-low
  winegallery query cabernet --min-price 50 --max-price 200 --json
  winegallery query --tag Honey --tag Apricot --page 2 --page-size 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringSliceVar(&queryParams.Countries, "country", nil, "country to include (repeatable)")
	f.StringSliceVar(&queryParams.Types, "type", nil, "wine type to include (repeatable)")
	f.StringSliceVar(&queryParams.Years, "year", nil, "vintage to include (repeatable)")
	f.StringSliceVar(&queryParams.Styles, "style", nil, "style to include (repeatable)")
	f.StringSliceVar(&queryParams.FlavorTags, "tag", nil, "flavor tag that must be present (repeatable)")
	f.Float64Var(&queryMin, "min-price", 0, "lowest price")
	f.Float64Var(&queryMax, "max-price", 0, "highest price")
	f.StringVar(&queryParams.Sort, "sort", "", "name-asc, name-desc, highest-rated, price-low-high or price-high-low")
	f.IntVar(&queryParams.Page, "page", 0, "page number")
	f.IntVar(&queryParams.PageSize, "page-size", 0, "records per page")
	f.BoolVar(&queryJSON, "json", false, "print JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}

	p := queryParams
	if len(args) == 1 {
		p.Query = args[0]
	}
	if cmd.Flags().Changed("min-price") {
		p.MinPrice = &queryMin
	}
	if cmd.Flags().Changed("max-price") {
		p.MaxPrice = &queryMax
	}

	state, err := engine.State(p, settings.Plugins.Gallery.PageSize)
	if err != nil {
		return err
	}
	res := engine.Query(state)

	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	browse.RenderFilter(out, state)
	browse.RenderPage(out, res)
	return nil
}
