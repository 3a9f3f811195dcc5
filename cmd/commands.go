package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"impro"
	"impro/core"
	"impro/stego"
)

func newGrayCmd(opts *options) *cobra.Command {
	var luma bool
	cmd := &cobra.Command{
		Use:   "gray [input] [output]",
		Short: "Convert an image to grayscale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := opts.codec()
			buf, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			if luma {
				_, err = buf.GrayscaleLuminance()
			} else {
				_, err = buf.Grayscale()
			}
			if err != nil && !errors.Is(err, core.ErrUnsupportedChannelCount) {
				return err
			}
			return codec.Save(buf, args[1])
		},
	}
	cmd.Flags().BoolVar(&luma, "luma", false, "use luminance weights instead of a plain average")
	return cmd
}

func newMaskCmd(opts *options) *cobra.Command {
	var red, green, blue float32
	cmd := &cobra.Command{
		Use:   "mask [input] [output]",
		Short: "Scale the red, green and blue channels",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := opts.codec()
			buf, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			if _, err := buf.ColorMask(red, green, blue); err != nil && !errors.Is(err, core.ErrUnsupportedChannelCount) {
				return err
			}
			return codec.Save(buf, args[1])
		},
	}
	cmd.Flags().Float32Var(&red, "red", 1, "red channel factor")
	cmd.Flags().Float32Var(&green, "green", 1, "green channel factor")
	cmd.Flags().Float32Var(&blue, "blue", 1, "blue channel factor")
	return cmd
}

func newDiffCmd(opts *options) *cobra.Command {
	var (
		rescale bool
		scale   uint8
	)
	cmd := &cobra.Command{
		Use:   "diff [a] [b] [output]",
		Short: "Write the absolute difference of two images",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := opts.codec()
			a, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			b, err := codec.Load(args[1])
			if err != nil {
				return err
			}
			if rescale || scale > 0 {
				a.DiffmapScale(b, scale)
			} else {
				a.Diffmap(b)
			}
			return codec.Save(a, args[2])
		},
	}
	cmd.Flags().BoolVar(&rescale, "rescale", false, "stretch the difference so its peak maps to 255")
	cmd.Flags().Uint8Var(&scale, "scale", 0, "expected peak difference used when rescaling (implies --rescale)")
	return cmd
}

func newEncodeCmd(opts *options) *cobra.Command {
	var (
		message, file string
		asQR          bool
	)
	cmd := &cobra.Command{
		Use:   "encode [input] [output]",
		Short: "Hide a message in the low bits of an image",
		Long: "Hide a message in the low bit of every byte of an image. The output\n" +
			"must be lossless (.png, .bmp or .tga) for the message to survive.\n" +
			"A --qr payload is stored exactly like text; decode it with --qr.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(message)
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				payload = data
			}

			if f := impro.FormatOf(args[1]); f == impro.JPEG {
				log.Warn().Str("output", args[1]).Msg("jpeg output is lossy, the message will not survive")
			}

			codec := opts.codec()
			buf, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			if asQR {
				err = codec.EmbedQRCode(buf, string(payload))
			} else {
				err = stego.Encode(buf, payload)
			}
			if err != nil {
				return err
			}
			log.Info().Int("bytes", len(payload)).Int("capacity", stego.Capacity(buf)).Msg("embedded message")
			return codec.Save(buf, args[1])
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "message to hide")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the message from this file")
	cmd.Flags().BoolVar(&asQR, "qr", false, "store the message as QR code content")
	cmd.MarkFlagsMutuallyExclusive("message", "file")
	cmd.MarkFlagsOneRequired("message", "file")
	return cmd
}

func newDecodeCmd(opts *options) *cobra.Command {
	var out, qrOut string
	cmd := &cobra.Command{
		Use:   "decode [input]",
		Short: "Extract a hidden message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := opts.codec()
			buf, err := codec.Load(args[0])
			if err != nil {
				return err
			}

			var res *impro.Result
			if qrOut != "" {
				res, err = codec.ExtractQRCode(buf)
			} else {
				res, err = codec.Extract(buf)
			}
			if err != nil {
				return err
			}

			if qrOut != "" && res.ImageBytes != nil {
				if err := os.WriteFile(qrOut, res.ImageBytes, 0o644); err != nil {
					return err
				}
				log.Info().Str("path", qrOut).Int("bytes", len(res.ImageBytes)).Msg("wrote QR code")
			}
			if out != "" {
				return os.WriteFile(out, res.Message, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(append(res.Message, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the message to this file instead of stdout")
	cmd.Flags().StringVar(&qrOut, "qr", "", "also render the message as a QR code PNG to this path")
	return cmd
}

func newCapacityCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "capacity [input]",
		Short: "Show how many message bytes an image can carry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := opts.codec().Load(args[0])
			if err != nil {
				return err
			}
			wtr := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(wtr, "Width\tHeight\tChannels\tCarrier Bytes\tCapacity (Bytes)")
			fmt.Fprintf(wtr, "%d\t%d\t%d\t%d\t%d\n",
				buf.Width(), buf.Height(), buf.Channels(), buf.Size(), stego.Capacity(buf))
			return wtr.Flush()
		},
	}
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [original] [modified]",
		Short: "Compare two images and test the modified one for LSB payloads",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := opts.codec()
			a, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			b, err := codec.Load(args[1])
			if err != nil {
				return err
			}
			res, err := impro.Compare(a, b)
			if err != nil {
				return err
			}
			chi, p := impro.ChiSquareLSB(b)

			wtr := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(wtr, "MSE\t%.4f\n", res.MSE)
			fmt.Fprintf(wtr, "PSNR (dB)\t%.2f\n", res.PSNR)
			fmt.Fprintf(wtr, "Mean |diff|\t%.4f\n", res.MeanAbsDiff)
			fmt.Fprintf(wtr, "StdDev |diff|\t%.4f\n", res.StdDevAbsDiff)
			fmt.Fprintf(wtr, "Max |diff|\t%.0f\n", res.MaxAbsDiff)
			fmt.Fprintf(wtr, "Changed bytes\t%d / %d\n", res.ChangedBytes, b.Size())
			fmt.Fprintf(wtr, "LSB chi-square\t%.4f (p=%.4f)\n", chi, p)
			return wtr.Flush()
		},
	}
}
