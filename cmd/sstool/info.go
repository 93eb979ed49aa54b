package main

import (
	"fmt"
	"os"

	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info ROM",
	Short: "Show where the team data lives in a ROM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		l, err := window.Inspect(img)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "size:     %s (%s bytes)\n", humanize.Bytes(uint64(l.Size)), humanize.Comma(int64(l.Size)))
		fmt.Fprintf(w, "edition:  %s\n", l.Edition())
		fmt.Fprintf(w, "pointers: 0x%06X\n", l.Table.Base)
		for _, c := range team.Categories {
			r := l.Table.Regions[c]
			fmt.Fprintf(w, "%-8s: 0x%06X-0x%06X %3d teams %s\n", c, r.Start, r.End, len(l.Blocks[c]), humanize.Bytes(uint64(r.Len())))
		}
		used := l.Table.Regions[team.Custom].End - l.Table.Regions[team.National].Start
		fmt.Fprintf(w, "capacity: %s / %s bytes used, ceiling 0x%06X\n",
			humanize.Comma(int64(used)), humanize.Comma(int64(l.Available())), l.Ceiling)
		return nil
	},
}
