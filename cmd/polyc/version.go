package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"polyc/internal/ext"
	"polyc/internal/version"
)

type versionPayload struct {
	Tool       string   `json:"tool"`
	Version    string   `json:"version"`
	GitCommit  string   `json:"git_commit,omitempty"`
	GitMessage string   `json:"git_message,omitempty"`
	BuildDate  string   `json:"build_date,omitempty"`
	Languages  []string `json:"languages"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show polyc version and supported languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		switch strings.ToLower(versionFormat) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{
				Tool:       "polyc",
				Version:    version.Version,
				GitCommit:  version.GitCommit,
				GitMessage: version.GitMessage,
				BuildDate:  version.BuildDate,
				Languages:  ext.Names(),
			})
		case "pretty", "":
			colored, err := useColor(cmd, os.Stdout)
			if err != nil {
				return err
			}
			fmt.Fprint(out, version.Banner(colored, ext.Names()))
			return nil
		default:
			return fmt.Errorf("unknown format %q (expected pretty|json)", versionFormat)
		}
	},
}
