package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukemcguire/framesrc/frame"
	"github.com/lukemcguire/framesrc/tui"
)

func newFramesCommand(a *app) *cobra.Command {
	var showTooltips bool

	cmd := &cobra.Command{
		Use:   "frames [file]",
		Short: "Label the frames of a JavaScript stack trace",
		Long: `Parse a JavaScript stack trace and print one label per frame, built from
the frame's source names: optional function name, file name, line and column,
and optional host.

Both Firefox (name@source:line:col) and Chrome (at name (source:line:col))
formats are understood. The trace is read from file, or stdin when omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open stack trace: %w", err)
				}
				defer file.Close()
				in = file
			}

			frames, err := frame.ParseStack(in)
			if err != nil {
				return err
			}

			opts := frame.Options{
				ShowFunctionName: a.cfg.Frames.ShowFunction,
				ShowHost:         a.cfg.Frames.ShowHost,
			}
			return writeFrames(cmd.OutOrStdout(), a, frames, opts, showTooltips)
		},
	}

	flags := cmd.Flags()
	flags.Bool("show-function", false, "prefix each label with the function name")
	flags.Bool("show-host", false, "suffix each label with the source host")
	flags.BoolVar(&showTooltips, "tooltips", false, "print the view-source hint under each linkable frame")
	bindConfigKey(flags, "show-function", "frames.show_function")
	bindConfigKey(flags, "show-host", "frames.show_host")

	return cmd
}

func writeFrames(w io.Writer, a *app, frames []frame.Frame, opts frame.Options, showTooltips bool) error {
	for _, f := range frames {
		link := frame.Describe(a.locator, f, opts)
		if _, err := fmt.Fprintln(w, tui.RenderFrame(link)); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		if showTooltips && link.Linkable {
			if _, err := fmt.Fprintln(w, "    "+link.ViewSourceTitle()); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
	return nil
}
