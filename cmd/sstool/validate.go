package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/JackWithOneEye/sensiedit/internal/validate"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("teams file has validation errors")

var validateCmd = &cobra.Command{
	Use:   "validate ROM TEAMS",
	Short: "Check an edited teams JSON file against a ROM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, raw, err := readInputs(args[0], args[1])
		if err != nil {
			return err
		}
		res := validate.Validator{Window: window}.Teams(img, raw)
		if err := report(cmd.ErrOrStderr(), &res); err != nil {
			return err
		}
		for _, c := range team.Categories {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s: %d teams OK\n", c, res.Report.Teams[c])
		}
		return nil
	},
}

func readInputs(romPath, teamsPath string) ([]byte, []byte, error) {
	img, err := os.ReadFile(romPath)
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(teamsPath)
	if err != nil {
		return nil, nil, err
	}
	return img, raw, nil
}

// report prints issues and fails when any of them is an error.
func report(w io.Writer, res *validate.Result) error {
	if len(res.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, e := range res.Warnings {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	if !res.Valid() {
		return fmt.Errorf("%w (%d)", errInvalid, len(res.Errors))
	}
	return nil
}
