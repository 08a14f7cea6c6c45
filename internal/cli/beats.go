package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beatcut/pkg/audio"
	"github.com/matzehuels/beatcut/pkg/beats"
	"github.com/matzehuels/beatcut/pkg/errors"
)

// beatsCommand creates the beat file command group.
func (c *CLI) beatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beats",
		Short: "Inspect and record beat files",
	}

	cmd.AddCommand(c.beatsStatsCommand())
	cmd.AddCommand(c.beatsTapCommand())

	return cmd
}

// beatsStatsCommand creates the "beats stats" subcommand.
func (c *CLI) beatsStatsCommand() *cobra.Command {
	var audioPath string

	cmd := &cobra.Command{
		Use:               "stats <beat.yml>",
		Short:             "Summarize the spacing of a beat file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBeatFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := beats.Load(args[0])
			if err != nil {
				return err
			}
			printBeatStats(beats.Summarize(seq))

			if audioPath == "" {
				return nil
			}
			info, err := audio.Probe(audioPath)
			if err != nil {
				return err
			}
			secs := info.Duration.Seconds()
			printKeyValue("audio", fmt.Sprintf("%.2fs (%d Hz, %d ch)", secs, info.SampleRate, info.Channels))
			if n := seq.After(secs); n > 0 {
				printWarning("%d beats fall after the end of the audio track", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "WAV track to check the beats against")
	_ = cmd.MarkFlagFilename("audio", "wav")

	return cmd
}

func printBeatStats(st beats.Stats) {
	printKeyValue("beats", fmt.Sprintf("%d", st.Count))
	printKeyValue("clips", fmt.Sprintf("%d", max(st.Count-1, 0)))
	printKeyValue("range", fmt.Sprintf("%.2fs ~ %.2fs", st.Start, st.End))
	printKeyValue("span", fmt.Sprintf("%.2fs", st.Span))
	printKeyValue("interval", fmt.Sprintf("%.3fs ± %.3fs", st.MeanInterval, st.StdDev))
	printKeyValue("min / max", fmt.Sprintf("%.3fs / %.3fs", st.MinInterval, st.MaxInterval))
	printKeyValue("tempo", fmt.Sprintf("%.1f bpm", st.BPM))
}

// beatsTapCommand creates the "beats tap" subcommand.
func (c *CLI) beatsTapCommand() *cobra.Command {
	var (
		out    string
		offset float64
	)

	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Record a beat file by tapping keys along with the music",
		Long: `Record a beat file by tapping along with the music.

Start the track in your player and this command at the same moment, then
press any key on each cut point. The first beat is where the audio will be
cut in. Press q on the last beat to save; esc aborts without saving. Use
--offset when the track was started before the recorder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewTapModel(offset), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("tap recorder: %w", err)
			}

			m := final.(TapModel)
			if m.Aborted {
				printInfo("Aborted, nothing saved")
				return nil
			}
			if err := m.Beats.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidBeats, err, "recorded beats")
			}
			if err := beats.Save(out, m.Beats); err != nil {
				return err
			}

			printSuccess("Recorded %d beats", len(m.Beats))
			printFile(out)
			c.Logger.Debug("tap session", "beats", len(m.Beats), "span", time.Duration(beats.Summarize(m.Beats).Span*float64(time.Second)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "beat.yml", "beat file to write")
	_ = cmd.RegisterFlagCompletionFunc("out", completeBeatFile)
	cmd.Flags().Float64Var(&offset, "offset", 0, "seconds already played when recording starts")

	return cmd
}
