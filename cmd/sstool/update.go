package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/JackWithOneEye/sensiedit/internal/validate"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var updateOutput string

var updateCmd = &cobra.Command{
	Use:   "update ROM TEAMS -o OUT",
	Short: "Write an edited teams JSON file into a copy of a ROM",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateOutput, "output", "o", "", "patched ROM file")
	_ = updateCmd.MarkFlagRequired("output")
}

func samePath(a, b string) bool {
	if ia, err := os.Stat(a); err == nil {
		if ib, err := os.Stat(b); err == nil {
			return os.SameFile(ia, ib)
		}
	}
	aa, errA := filepath.Abs(a)
	ab, errB := filepath.Abs(b)
	return errA == nil && errB == nil && aa == ab
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if samePath(args[0], updateOutput) {
		return errors.New("output file must differ from input ROM")
	}
	img, raw, err := readInputs(args[0], args[1])
	if err != nil {
		return err
	}
	res := validate.Validator{Window: window}.Teams(img, raw)
	if err := report(cmd.ErrOrStderr(), &res); err != nil {
		return err
	}

	var teams team.Teams
	if err := json.Unmarshal(raw, &teams); err != nil {
		return err
	}
	out, rep, err := window.Patch(img, &teams)
	if err != nil {
		return err
	}
	if err := os.WriteFile(updateOutput, out, 0o644); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, c := range team.Categories {
		fmt.Fprintf(w, "%-8s: %2d/%d changed\n", c, rep.Changes[c], rep.Teams[c])
	}
	fmt.Fprintf(w, "Total: %s / %s bytes used (%s free)\n",
		humanize.Comma(int64(rep.Used)), humanize.Comma(int64(rep.Available)), humanize.Bytes(uint64(rep.Free())))
	fmt.Fprintf(w, "Written to: %s\n", updateOutput)
	return nil
}
