package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-study-tracker/internal/analyzer"
	"github.com/penwyp/go-study-tracker/internal/core/bucket"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/ticks"
	"github.com/penwyp/go-study-tracker/internal/core/zoom"
	"github.com/penwyp/go-study-tracker/internal/data/store"
	"github.com/penwyp/go-study-tracker/internal/util"
)

var (
	// Detect command flags
	detectGranularity string
	detectAt          string
)

const separatorWidth = 60

var detectCmd = &cobra.Command{
	Use:          "detect",
	Short:        "Debug command to print every pipeline stage per subject",
	Long:         `Reads every subject and prints raw, gap-filled and aggregated data for one window without UI.`,
	Hidden:       true, // Hidden from help
	SilenceUsage: true,
	RunE:         runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVarP(&detectGranularity, "granularity", "g", "day",
		"Zoom level (day, week, month, year)")
	detectCmd.Flags().StringVar(&detectAt, "at", "",
		"Inspect the period containing this time")
}

func runDetect(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	g, err := model.ParseGranularity(strings.ToLower(detectGranularity))
	if err != nil {
		return err
	}
	var atTime time.Time
	if detectAt != "" {
		if atTime, err = util.GetTimeProvider().ParseInLocation(detectAt); err != nil {
			return err
		}
	}

	a := analyzer.New(&analyzer.Config{
		Granularity: g,
		At:          atTime,
		Location:    env.location,
		WeekStart:   env.config.WeekStartDay(),
	}, env.store, cmd.OutOrStdout())
	w, err := a.Window()
	if err != nil {
		return fmt.Errorf("resolving window: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, util.FormatSectionSeparator(separatorWidth))
	fmt.Fprintln(out, util.FormatHeaderTitle("=== Study Tracker Pipeline Detection ==="))
	fmt.Fprintf(out, "Timestamp: %s\n", util.GetTimeProvider().Now().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Data Directory: %s\n", env.store.Dir())
	fmt.Fprintf(out, "Window: %s (%d hours)\n", w, w.Hours())
	fmt.Fprintf(out, "Week Start: %s\n", env.config.WeekStartDay())
	fmt.Fprintln(out, util.FormatSectionSeparator(separatorWidth))

	subjects, err := env.store.ListSubjects()
	if err != nil {
		return fmt.Errorf("listing subjects: %w", err)
	}
	if len(subjects) == 0 {
		fmt.Fprintln(out, "No subjects found")
		return nil
	}

	for _, name := range subjects {
		if err := printStages(cmd, out, env.store, name, w); err != nil {
			return err
		}
		fmt.Fprintln(out, util.FormatSectionSeparator(separatorWidth))
	}
	return nil
}

// printStages runs one subject through read, fill, aggregate and tick
// selection and prints what each stage produced.
func printStages(cmd *cobra.Command, out io.Writer, st *store.Store, name string, w model.Window) error {
	fmt.Fprintln(out, util.FormatDataTitle("Subject: "+name))

	raw, err := st.ReadSamples(cmd.Context(), name)
	if err != nil {
		return err
	}
	inWindow := 0
	for _, s := range raw {
		if w.Contains(s.Timestamp) {
			inWindow++
		}
	}
	fmt.Fprintf(out, "Raw samples: %d stored, %d in window\n", len(raw), inWindow)

	hourly, err := bucket.Fill(raw, w.Start, w.End)
	if err != nil {
		return fmt.Errorf("filling %s: %w", name, err)
	}
	fmt.Fprintf(out, "Gap-filled: %d hourly points, %s studied\n", hourly.Len(), util.FormatSeconds(hourly.Sum()))

	series, unit, err := zoom.Aggregate(hourly, w.Granularity)
	if err != nil {
		return fmt.Errorf("aggregating %s: %w", name, err)
	}
	fmt.Fprintf(out, "Aggregated: %d points in %s\n", series.Len(), unit.Label)

	axis, err := ticks.Select(series, w.Granularity)
	if err != nil {
		return fmt.Errorf("selecting ticks: %w", err)
	}
	fmt.Fprintf(out, "Ticks: %d (rotated: %v)\n", len(axis.Positions), axis.Rotate)

	for _, p := range series.Points {
		if p.Value == 0 {
			continue
		}
		fmt.Fprintf(out, "  %s  %s\n", p.Timestamp.Format("2006-01-02 15:04"), util.FormatValue(p.Value, unit.Label))
	}
	return nil
}
