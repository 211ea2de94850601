package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/preshow-cli/preshow/action"
	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/compiler"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/engine"
	"github.com/preshow-cli/preshow/history"
	"github.com/preshow-cli/preshow/icon"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/player"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/style"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("sequence", "s", "", "Play the sequence with this name instead of the best match")
	playCmd.Flags().BoolP("pick", "p", false, "Choose the sequence from a list")
	playCmd.Flags().BoolP("dry-run", "n", false, "Print the compiled timeline and exit")
	playCmd.MarkFlagsMutuallyExclusive("sequence", "pick")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("sequence", completionSequences))

	playCmd.SetOut(os.Stdout)
}

var playCmd = &cobra.Command{
	Use:   "play [features...]",
	Short: "Play the preshow and the features",
	Long: `Play a sequence on mpv. Features are media files or JSON feature files
carrying the metadata sequences are matched against.`,
	Example: "  preshow play ~/Movies/Alien.mkv\n  preshow play --pick alien.json",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		features, err := loadFeatures(args)
		handleErr(err)

		docs, err := loadSequences()
		handleErr(err)

		var doc *sequence.Document
		if lo.Must(cmd.Flags().GetBool("pick")) {
			doc, err = pickSequence(docs)
		} else {
			doc, err = chooseSequence(docs, lo.Must(cmd.Flags().GetString("sequence")), features)
		}
		handleErr(err)

		for _, warning := range doc.Validate() {
			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Question)), warning)
		}

		dryRun := lo.Must(cmd.Flags().GetBool("dry-run"))
		if !dryRun {
			requirePlayer()

			lock := flock.New(where.Lock())
			locked, err := lock.TryLock()
			handleErr(err)
			if !locked {
				handleErr(errors.New("another show is already running"))
			}
			defer util.Ignore(lock.Unlock)
		}

		store, err := openCatalog()
		handleErr(err)
		defer util.Ignore(store.Close)

		proc := compiler.New(doc.Items, newContext(ctx, store, features, dryRun))
		proc.Compile()
		cmd.Printf("%s %s: %s\n", icon.Get(icon.Film), style.Bold(doc.Name), util.Quantify(len(proc.Timeline()), "playable", "playables"))

		if dryRun {
			cmd.Println(timelineTable(proc.Timeline()))
			return
		}

		run := &history.Run{
			ID:       uuid.NewString(),
			Sequence: doc.Name,
			Features: lo.Map(features, func(f *playable.Feature, _ int) string { return f.Title }),
			Started:  time.Now(),
		}

		err = play(ctx, cmd, proc, run.ID)
		run.Ended = time.Now()
		switch {
		case err == nil:
			run.Outcome = history.Finished
		case errors.Is(err, engine.ErrAborted):
			run.Outcome, run.Error = history.Aborted, err.Error()
		default:
			run.Outcome, run.Error = history.Failed, err.Error()
		}
		if err := history.Save(run); err != nil {
			log.Warnf("save history: %s", err)
		}

		if errors.Is(err, engine.ErrAborted) {
			log.Warn(err)
			cmd.Printf("%s %s\r\n", style.Fg(color.Yellow)(icon.Get(icon.Cross)), err)
			return
		}
		handleErr(err)
	},
}

func play(ctx context.Context, cmd *cobra.Command, proc *compiler.Processor, id string) error {
	bin := viper.GetString(key.PlayerPath)

	video := player.NewMPV(player.Options{
		Binary:     bin,
		Fullscreen: viper.GetBool(key.PlayerFullscreen),
		Name:       "video",
	})
	defer util.Ignore(video.Close)

	music := player.NewMPV(player.Options{Binary: bin, AudioOnly: true, Name: "music"})
	defer util.Ignore(music.Close)

	e := engine.New(proc, video, music, player.NewScreen(video))
	e.ID = id
	e.Actions = engine.LoadEventActions(config.Defaults(), func(path string) playable.Runner {
		return action.New(path)
	})
	e.MaxFailures = viper.GetInt(key.PlayerMaxFailures)
	e.PreDelay = time.Duration(viper.GetInt(key.PlayerPreDelay)) * time.Millisecond

	cmd.Println(style.Faint(keyHelp))
	restore := readKeys(e.Input)
	defer restore()

	return e.Run(ctx)
}

func pickSequence(docs []*sequence.Document) (*sequence.Document, error) {
	visible := lo.Filter(docs, func(d *sequence.Document, _ int) bool {
		return d.VisibleInDialog()
	})
	if len(visible) == 0 {
		visible = docs
	}

	var choice int
	prompt := &survey.Select{
		Message: "Sequence",
		Options: lo.Map(visible, func(d *sequence.Document, _ int) string { return d.Name }),
		Description: func(_ string, i int) string {
			return strings.Join(visible[i].Attributes.Describe(), ", ")
		},
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return nil, err
	}
	return visible[choice], nil
}

func completionSequences(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	docs, err := loadSequences()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(docs, func(d *sequence.Document, _ int) string { return d.Name }), cobra.ShellCompDirectiveNoFileComp
}
