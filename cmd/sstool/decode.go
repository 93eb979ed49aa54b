package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	decodeOutput string
	decodeFormat string
)

var decodeCmd = &cobra.Command{
	Use:   "decode ROM",
	Short: "Decode every team in a ROM to JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "write to file instead of stdout")
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "json", "output format: json or yaml")
}

func runDecode(cmd *cobra.Command, args []string) error {
	img, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	teams, err := window.Decode(img)
	if err != nil {
		return err
	}

	var out []byte
	switch decodeFormat {
	case "json":
		out, err = json.MarshalIndent(teams, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(teams)
	default:
		return fmt.Errorf("unknown format %q", decodeFormat)
	}
	if err != nil {
		return err
	}

	if decodeOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(decodeOutput, out, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written %d teams to %s\n", teams.Count(), decodeOutput)
	return nil
}
