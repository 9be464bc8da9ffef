package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/bstardust/photo-geometa/internal/config"
	"github.com/bstardust/photo-geometa/internal/gps"
	"github.com/bstardust/photo-geometa/internal/rational"
	"github.com/bstardust/photo-geometa/pkg/common"
)

// maxDigits matches the range accepted for the gps.*_digits settings.
const maxDigits = 9

func newGPSCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gps",
		Short: "Convert GPS coordinates between decimal, rational and XMP forms",
	}

	cmd.AddCommand(newGPSFormatCommand())
	cmd.AddCommand(newGPSParseCommand())
	cmd.AddCommand(newGPSRationalCommand(cfg))
	cmd.AddCommand(newGPSTagsCommand(cfg))

	return cmd
}

func newGPSFormatCommand() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "format (--lat <degrees> | --lon <degrees>)",
		Short: "Format signed decimal degrees as an XMP coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			isLatitude := cmd.Flags().Changed("lat")
			degrees := lon
			if isLatitude {
				degrees = lat
			}

			coord, err := gps.CoordinateToString(isLatitude, degrees)
			if err != nil {
				return err
			}
			dms, err := gps.DegreesToDMS(isLatitude, degrees)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "xmp: %s\n", coord)
			fmt.Fprintf(out, "dms: %s\n", dms)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in signed decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in signed decimal degrees")
	cmd.MarkFlagsMutuallyExclusive("lat", "lon")
	cmd.MarkFlagsOneRequired("lat", "lon")

	return cmd
}

func newGPSParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <coordinate>",
		Short: `Parse an XMP coordinate such as "40,26.7717N" or "122,5,34W"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			degrees, err := gps.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			dms, err := gps.UserPresentable(args[0])
			if err != nil {
				return err
			}
			deg, min, sec, ref, err := gps.StringToRationals(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "decimal: %s\n", strconv.FormatFloat(degrees, 'f', 8, 64))
			fmt.Fprintf(out, "dms: %s\n", dms)
			fmt.Fprintf(out, "rationals: %s %s %s %c\n", deg, min, sec, ref)
			return nil
		},
	}
}

func newGPSRationalCommand(cfg *config.Config) *cobra.Command {
	var digits int
	var minimal bool

	cmd := &cobra.Command{
		Use:   "rational [flags] [--] <value>",
		Short: "Convert a decimal value to an EXIF rational",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			if digits < 0 || digits > maxDigits {
				return common.NewInputError("--digits", fmt.Sprintf("must be within 0..%d, got %d", maxDigits, digits))
			}

			var r rational.Rational
			if minimal {
				r = rational.MinimalDenominatorWithin(value, cfg.GPS.MaxDenominator)
			} else {
				r = rational.Bounded(value, digits)
			}
			fmt.Fprintln(cmd.OutOrStdout(), r)
			return nil
		},
	}

	cmd.Flags().IntVar(&digits, "digits", 4, "Decimal digits kept by the bounded conversion")
	cmd.Flags().BoolVar(&minimal, "minimal", false, "Search for the smallest denominator instead")
	cmd.Flags().IntVar(&cfg.GPS.MaxDenominator, "max-denominator", cfg.GPS.MaxDenominator, "Search bound for --minimal")
	cmd.MarkFlagsMutuallyExclusive("digits", "minimal")

	return cmd
}

func newGPSTagsCommand(cfg *config.Config) *cobra.Command {
	var pos gps.Position

	cmd := &cobra.Command{
		Use:   "tags --lat <degrees> --lon <degrees> [--alt <meters>]",
		Short: "Print the EXIF and XMP tags for a GPS position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos.HasAltitude = cmd.Flags().Changed("alt")

			tags, err := gps.TagSet(pos, gps.Precision{
				SecondsDigits:  cfg.GPS.LatLongDigits,
				AltitudeDigits: cfg.GPS.AltitudeDigits,
			})
			if err != nil {
				return err
			}

			keys := maps.Keys(tags)
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, tags[k])
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&pos.Latitude, "lat", 0, "Latitude in signed decimal degrees")
	cmd.Flags().Float64Var(&pos.Longitude, "lon", 0, "Longitude in signed decimal degrees")
	cmd.Flags().Float64Var(&pos.Altitude, "alt", 0, "Altitude in meters, negative below sea level")
	cmd.Flags().IntVar(&cfg.GPS.LatLongDigits, "digits", cfg.GPS.LatLongDigits, "Decimal digits kept for arc seconds")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")

	return cmd
}
