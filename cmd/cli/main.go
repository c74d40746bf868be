package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"solarweb/domain/table"
	"solarweb/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "solarweb-cli",
		Short:         "Render and copy semicolon-delimited analysis tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newCleanCmd(),
		newCopyCmd(),
		newSummaryCmd(),
	)
	return rootCmd
}

func newRenderCmd() *cobra.Command {
	var comma bool

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print a table aligned in columns",
		Long: `Print the display form of a table with aligned columns.

FILE may be "-" to read standard input.

Example: solarweb-cli render timeslots.csv --comma`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRenderer(cmd, args[0], comma, nil)
			if err != nil {
				return err
			}
			return writeAligned(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().BoolVar(&comma, "comma", false, "Use comma as decimal separator")
	return cmd
}

func newCleanCmd() *cobra.Command {
	var comma bool

	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Print the clipboard payload of a whole table",
		Long: `Drop the header row and the label column, and print the remaining
cells tab separated, one row per line.

Example: solarweb-cli clean timeslots.csv | pbcopy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRenderer(cmd, args[0], comma, nil)
			if err != nil {
				return err
			}
			return writePayload(cmd.OutOrStdout(), r.CopyAll())
		},
	}

	cmd.Flags().BoolVar(&comma, "comma", false, "Use comma as decimal separator")
	return cmd
}

func newCopyCmd() *cobra.Command {
	var (
		comma      bool
		start, end int
		group      string
		groupsFile string
	)

	cmd := &cobra.Command{
		Use:   "copy FILE",
		Short: "Print the clipboard payload of a row range or copy group",
		Long: `Print the payload of body rows [start, end) or of a named copy group.

Without --groups-file the groups are first [0,3), second [3,5),
third [5,7) and fourth [7,9).

Examples:
  solarweb-cli copy timeslots.csv --start 0 --end 3
  solarweb-cli copy timeslots.csv --group second --comma`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rangeSet := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")
			if group != "" && rangeSet {
				return fmt.Errorf("--group cannot be combined with --start/--end")
			}
			if group == "" && !rangeSet {
				return fmt.Errorf("either --group or --start/--end is required")
			}

			var groups []table.CopyGroup
			if groupsFile != "" {
				var err error
				groups, err = config.LoadCopyGroups(groupsFile)
				if err != nil {
					return err
				}
			}

			r, err := loadRenderer(cmd, args[0], comma, groups)
			if err != nil {
				return err
			}

			if group != "" {
				payload, ok := r.CopyGroup(group)
				if !ok {
					return fmt.Errorf("unknown copy group %q (available: %s)", group, groupNames(r.Groups()))
				}
				return writePayload(cmd.OutOrStdout(), payload)
			}

			if !cmd.Flags().Changed("end") {
				end = len(r.Rows())
			}
			return writePayload(cmd.OutOrStdout(), r.CopyRange(start, end))
		},
	}

	cmd.Flags().BoolVar(&comma, "comma", false, "Use comma as decimal separator")
	cmd.Flags().IntVar(&start, "start", 0, "First body row, 0-indexed")
	cmd.Flags().IntVar(&end, "end", 0, "Body row after the last one copied")
	cmd.Flags().StringVar(&group, "group", "", "Copy group name")
	cmd.Flags().StringVar(&groupsFile, "groups-file", "", "YAML file with copy group definitions")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var (
		comma  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Print statistics of each numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRenderer(cmd, args[0], comma, nil)
			if err != nil {
				return err
			}
			summaries := table.Summarize(r)

			if asJSON {
				if summaries == nil {
					summaries = []table.ColumnSummary{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tCOUNT\tMIN\tMAX\tMEAN\tSUM\tSTDDEV")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n", s.Header, s.Count,
					table.FormatNumber(s.Min, comma), table.FormatNumber(s.Max, comma),
					table.FormatNumber(s.Mean, comma), table.FormatNumber(s.Sum, comma),
					table.FormatNumber(s.StdDev, comma))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&comma, "comma", false, "Use comma as decimal separator")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func loadRenderer(cmd *cobra.Command, path string, comma bool, groups []table.CopyGroup) (*table.Renderer, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	opts := []table.Option{table.WithCommaSeparator(comma)}
	if len(groups) > 0 {
		opts = append(opts, table.WithCopyGroups(groups))
	}
	return table.New(string(data), opts...), nil
}

func writeAligned(w io.Writer, r *table.Renderer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.Header(), "\t"))
	for _, row := range r.Rows() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writePayload(w io.Writer, payload string) error {
	if payload == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, payload)
	return err
}

func groupNames(groups []table.CopyGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}
