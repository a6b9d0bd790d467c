package cmd

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yumyai/blutable/internal/termview"
	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/loader"
	"github.com/yumyai/blutable/pkg/view"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|url>",
	Short: "Print a page of a result document",
	Long: `Load a Blutils consensus document from a file or an http(s) URL and
print one page of it in the terminal.

Examples:
  blutable inspect blutils.consensus.json
  blutable inspect results.json --mode subject --wrap _
  blutable inspect results.json --query read_12 --detail`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("mode", "table", "presentation: table, subject or taxonomy")
	inspectCmd.Flags().String("query", "", "query name search")
	inspectCmd.Flags().String("subject", "", "subject (taxon) search")
	inspectCmd.Flags().String("unmatched", "show_also", "unmatched queries: show_also, show_only or omit")
	inspectCmd.Flags().Int("page", 1, "page number")
	inspectCmd.Flags().Int("page-size", 0, "groups per page (default from config)")
	inspectCmd.Flags().String("wrap", "", "subject grouping wrap character")
	inspectCmd.Flags().Bool("detail", false, "print consensus detail for the exact --query instead")
	inspectCmd.Flags().Bool("no-color", false, "disable colors")
}

func runInspect(cmd *cobra.Command, args []string) error {
	source := args[0]
	flags := cmd.Flags()

	rawMode, _ := flags.GetString("mode")
	mode, err := grouping.ParseGroupMode(rawMode)
	if err != nil {
		return err
	}
	rawUnmatched, _ := flags.GetString("unmatched")
	unmatched, err := grouping.ParseUnmatchedAction(rawUnmatched)
	if err != nil {
		return err
	}
	query, _ := flags.GetString("query")
	subject, _ := flags.GetString("subject")
	page, _ := flags.GetInt("page")
	pageSize, _ := flags.GetInt("page-size")
	wrap, _ := flags.GetString("wrap")
	detail, _ := flags.GetBool("detail")
	noColor, _ := flags.GetBool("no-color")

	if pageSize <= 0 {
		pageSize = cfg.PageSize
	}

	l := loader.New(&http.Client{Timeout: cfg.FetchTimeout}, cfg.MaxDocumentBytes)
	var loaded *loader.Loaded
	if loader.ValidURL(source) {
		loaded, err = l.FromURL(cmd.Context(), source)
	} else {
		loaded, err = l.FromFile(source)
	}
	if err != nil {
		return err
	}

	explorer, err := view.NewExplorer(view.ExplorerOptions{
		PageSize:  pageSize,
		RowHeight: cfg.RowHeight,
		Locale:    cfg.Tag(),
		CacheSize: 4,
	})
	if err != nil {
		return err
	}
	explorer.SetDocument(&view.Document{ID: uuid.NewString(), Source: loaded.Source, ResultDocument: loaded.Document})

	printer := termview.NewPrinter(cmd.OutOrStdout(), !noColor && termview.ColorsEnabled())

	if detail {
		result, ok := explorer.Find(query)
		if !ok {
			return fmt.Errorf("query %q not found in %s", query, loaded.Source)
		}
		return printer.Detail(result)
	}

	if err := explorer.SwitchMode(mode); err != nil {
		return err
	}
	err = explorer.Update(func(s view.ViewState) view.ViewState {
		return s.WithSearch(query, subject).
			WithUnmatched(unmatched).
			WithWrapChar(wrap).
			WithPageSize(pageSize).
			WithPage(page)
	})
	if err != nil {
		return err
	}

	snap, err := explorer.Snapshot()
	if err != nil {
		return err
	}
	return printer.Snapshot(loaded.Source, snap)
}
