package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/spf13/cobra"
)

var (
	submitName     string
	submitEmail    string
	submitConsents []string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a consent and print the page that holds it",
	Example: `  consents submit --name "Diane Nguyen" --email diane@writer.com \
    --consent "Receive newsletter" --consent "Be shown targeted ads"`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&submitName, "name", "", "name, letters and spaces only")
	submitCmd.Flags().StringVar(&submitEmail, "email", "", "email address")
	submitCmd.Flags().StringArrayVar(&submitConsents, "consent", []string{},
		fmt.Sprintf("consent given (can be repeated): %s", strings.Join(consent.Options, ", ")))
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	record := consent.Record{
		Name:            strings.TrimSpace(submitName),
		Email:           strings.TrimSpace(submitEmail),
		ConsentGivenFor: submitConsents,
	}

	if err := consent.Validate(record); err != nil {
		var vErr *consent.ValidationError
		if errors.As(err, &vErr) {
			for _, fe := range vErr.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return fmt.Errorf("invalid consent: %w", err)
	}

	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	if appended := store.SubmitAndRefresh(cmd.Context(), record); !appended {
		return errors.New(store.State().Err)
	}

	state := store.State()
	if state.HasError() {
		return fmt.Errorf("consent saved, but the refresh failed: %s", state.Err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Consent saved.")
	renderPage(out, state.CurrentPage, store.CurrentRecords(), state)
	return nil
}
