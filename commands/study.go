package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-study-tracker/internal/core/session"
	"github.com/penwyp/go-study-tracker/internal/data/store"
	"github.com/penwyp/go-study-tracker/internal/util"
)

var (
	studyFrom string
	studyTo   string
)

var studyCmd = &cobra.Command{
	Use:   "study <subject>",
	Short: "Time a study session and store it",
	Long: heredoc.Doc(`
		Starts a stopwatch for the subject and stores the session when you
		press Ctrl+C. The subject is created on first use.

		With --from and --to a past session is logged without running
		the timer. Sessions longer than 24 hours are rejected.
	`),
	Example: heredoc.Doc(`
		go-study-tracker study Math
		go-study-tracker study Physics --from "2024-03-11 09:00" --to "2024-03-11 10:30"
	`),
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runStudy,
}

func init() {
	rootCmd.AddCommand(studyCmd)

	studyCmd.Flags().StringVar(&studyFrom, "from", "",
		"Start of a past session (e.g., 2024-03-11 09:00)")
	studyCmd.Flags().StringVar(&studyTo, "to", "",
		"End of a past session (e.g., 2024-03-11 10:30)")
}

func runStudy(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := store.ValidateSubject(name); err != nil {
		return err
	}

	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	var sess session.Session
	if studyFrom != "" || studyTo != "" {
		sess, err = pastSession(name, studyFrom, studyTo)
	} else {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		rec := session.NewRecorder(name, session.ClockFunc(util.GetTimeProvider().Now))
		sess, err = runTimer(ctx, cmd.OutOrStdout(), rec, time.Second)
	}
	if err != nil {
		return err
	}

	// the timer context is cancelled by now
	if err := saveSession(context.Background(), env.store, sess, env.location); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of %s\n", util.FormatDuration(sess.Duration()), sess.Subject)
	return nil
}

// pastSession parses a manually entered interval in the configured zone.
func pastSession(name, from, to string) (session.Session, error) {
	if from == "" || to == "" {
		return session.Session{}, fmt.Errorf("--from and --to must be given together")
	}
	tp := util.GetTimeProvider()
	start, err := tp.ParseInLocation(from)
	if err != nil {
		return session.Session{}, fmt.Errorf("invalid --from: %w", err)
	}
	stop, err := tp.ParseInLocation(to)
	if err != nil {
		return session.Session{}, fmt.Errorf("invalid --to: %w", err)
	}
	return session.NewSession(name, start, stop)
}

// runTimer redraws the stopwatch every interval until ctx is done and
// returns the finished session.
func runTimer(ctx context.Context, out io.Writer, rec *session.Recorder, interval time.Duration) (session.Session, error) {
	if err := rec.Start(); err != nil {
		return session.Session{}, err
	}
	util.LogInfo("study session started", util.F("subject", rec.Subject()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	drawClock(out, rec)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			sess, err := rec.Stop()
			if err != nil {
				return session.Session{}, err
			}
			util.LogInfo("study session stopped",
				util.F("subject", sess.Subject),
				util.F("duration", sess.Duration().String()))
			return sess, nil
		case <-ticker.C:
			drawClock(out, rec)
		}
	}
}

func drawClock(out io.Writer, rec *session.Recorder) {
	h, m, s := session.ElapsedParts(rec.Elapsed())
	fmt.Fprintf(out, "\r%s  %s  %s", util.FormatHeaderTitle(rec.Subject()), util.FormatClock(h, m, s), util.FormatDim("Ctrl+C to stop"))
}

// saveSession splits sess into hourly samples and merges them into the store.
func saveSession(ctx context.Context, st *store.Store, sess session.Session, loc *time.Location) error {
	samples := sess.Samples(loc)
	if len(samples) == 0 {
		util.LogWarn("empty session not stored", util.F("subject", sess.Subject))
		return nil
	}
	if err := st.AddSamples(ctx, sess.Subject, samples); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
