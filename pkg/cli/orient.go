package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-geometa/internal/orientation"
)

func newOrientCommand() *cobra.Command {
	var exifValue int
	var actionNames []string

	cmd := &cobra.Command{
		Use:   "orient [--exif N] --action <action>...",
		Short: "Compose rotate/flip actions on top of an EXIF orientation",
		Long: `orient applies the given actions, in order, on top of the EXIF
orientation and prints the resulting EXIF value together with the lossless
operations that reproduce it. Actions: none, fliph, flipv, rotate90,
rotate180, rotate270.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := orientation.ExifOrientation(exifValue)
			if !start.Valid() {
				return fmt.Errorf("EXIF orientation must be within 0..8, got %d", exifValue)
			}

			m := orientation.FromExif(start)
			for _, name := range actionNames {
				a, err := orientation.ParseAction(name)
				if err != nil {
					return err
				}
				m.Compose(orientation.FromAction(a))
			}

			names := make([]string, 0, 2)
			for _, a := range m.Actions() {
				names = append(names, a.String())
			}
			if len(names) == 0 {
				names = append(names, orientation.NoTransformation.String())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "exif: %d (%s)\n", int(m.Exif()), m.Exif())
			fmt.Fprintf(out, "actions: %s\n", strings.Join(names, ","))
			fmt.Fprintf(out, "swaps dimensions: %t\n", m.SwapsDimensions())
			return nil
		},
	}

	cmd.Flags().IntVar(&exifValue, "exif", int(orientation.Normal), "Starting EXIF orientation (0..8)")
	cmd.Flags().StringArrayVar(&actionNames, "action", nil, "Action to apply; repeat for several")

	return cmd
}
