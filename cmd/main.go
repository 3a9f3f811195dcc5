// Command impro applies pixel-buffer transforms and LSB steganography to
// image files.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"impro"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	verbose     bool
	jpegQuality int
}

// codec returns a codec configured from the persistent flags.
func (o *options) codec() *impro.Codec {
	c := impro.NewCodec()
	c.JPEGQuality = o.jpegQuality
	return c
}

// newRootCmd builds the command tree. Every call returns fresh commands
// with their own flag state.
func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "impro",
		Short:         "Grayscale, mask, diff and hide messages in images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().IntVar(&opts.jpegQuality, "jpeg-quality", 100, "quality of written .jpg files (1-100)")

	root.AddCommand(
		newGrayCmd(opts),
		newMaskCmd(opts),
		newDiffCmd(opts),
		newEncodeCmd(opts),
		newDecodeCmd(opts),
		newCapacityCmd(opts),
		newAnalyzeCmd(opts),
	)
	return root
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("impro failed")
	}
}
