package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/binding"
)

func newSerializeCmd(a *app) *cobra.Command {
	var (
		ff formFlags
		vf valueFlags
	)
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Fill a scaffolded form and print the save envelope",
		Long: `Build a form from the Reference Template, fill it from --data, --values
and --set, and print the {"data": ...} payload a save would send.

Collapsed sections serialize as null. Blank fields serialize as null.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.build(cmd.Context())
			if err != nil {
				return err
			}
			if err := vf.apply(cmd, f); err != nil {
				return err
			}
			payload, err := f.binder.Serialize(f.tpl, f.fields)
			if err != nil {
				return err
			}
			if obj, ok := payload.(map[string]any); ok {
				a.logger.Debug().Interface("payload", logging.RedactMap(obj)).Msg("serialized")
			}
			return writeJSON(cmd.OutOrStdout(), binding.Envelope(payload))
		},
	}
	ff.register(cmd)
	vf.register(cmd)
	return cmd
}

// loadOutput is the printed summary of a deserialize walk.
type loadOutput struct {
	Values      map[string]any  `json:"values"`
	Contributed map[string]bool `json:"contributed"`
	Expanded    []string        `json:"expanded"`
	Skipped     []string        `json:"skipped,omitempty"`
}

func reportOutput(report binding.LoadReport) loadOutput {
	out := loadOutput{
		Values:      report.Values,
		Contributed: report.Nodes,
		Expanded:    report.Expanded,
		Skipped:     report.Skipped,
	}
	if out.Expanded == nil {
		out.Expanded = []string{}
	}
	return out
}

func newDeserializeCmd(a *app) *cobra.Command {
	var (
		ff       formFlags
		dataFile string
	)
	cmd := &cobra.Command{
		Use:   "deserialize",
		Short: "Load a data object into a scaffolded form and report the result",
		Long: `Push a data object into a form built from the Reference Template and print
the values written, which internal nodes received data, and which sections
were expanded as a result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.build(cmd.Context())
			if err != nil {
				return err
			}
			data, err := readObject(cmd.InOrStdin(), dataFile)
			if err != nil {
				return err
			}
			report := f.binder.Deserialize(unwrapData(data, f.tpl), f.fields)
			if len(report.Skipped) > 0 {
				a.logger.Warn().Strs("paths", report.Skipped).Msg("values without a field")
			}
			return writeJSON(cmd.OutOrStdout(), reportOutput(report))
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVar(&dataFile, "data", "-", "data object to load; - for stdin")
	return cmd
}
