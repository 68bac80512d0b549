package cmd

import (
	"fmt"
	"io"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/pagestore"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	listPages = []int{1}
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one or more pages of consents",
	Long: `Fetch pages from the collection endpoint and print them.

Several --page flags are fetched concurrently through one page store.`,
	Example: `  consents list
  consents list --page 2 --page 3 --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntSliceVar(&listPages, "page", []int{1}, "page number to print (can be repeated)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	for _, page := range listPages {
		g.Go(func() error {
			return store.RequestPage(gctx, page)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	state := store.State()
	pages := make([]consent.PageResponse, 0, len(listPages))
	for _, page := range listPages {
		records, ok := store.Page(page)
		if !ok {
			return fmt.Errorf("page %d: %s", page, failureText(state))
		}
		pages = append(pages, pageResponse(page, records, state))
	}

	return printPages(cmd.OutOrStdout(), pages, state)
}

func printPages(w io.Writer, pages []consent.PageResponse, state pagestore.State) error {
	if listJSON {
		if len(pages) == 1 {
			return writeJSON(w, pages[0])
		}
		return writeJSON(w, pages)
	}

	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderPage(w, p.Page, p.Data, state)
	}
	return nil
}

// failureText is the store error, or the generic fetch message when a later
// request already cleared it.
func failureText(state pagestore.State) string {
	if state.HasError() {
		return state.Err
	}
	return pagestore.MsgFetchFailed
}
