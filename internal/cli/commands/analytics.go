package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

const dateLayout = "2006-01-02"

var (
	analyticsFrom  string
	analyticsTo    string
	analyticsLimit int
)

// dashboardPages are the admin dashboards that show analytics
var dashboardPages = []string{
	navigation.PageSuperAdmin,
	navigation.PageCoSuperAdmin,
	navigation.PageAdminCreator,
	navigation.PageAdminApprover,
}

// analyticsCmd is the parent analytics command
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "show search and satisfaction analytics",
	Long: `Show what users search for and how they rate the answers.

Dates are YYYY-MM-DD; the range defaults to the last 30 days.`,
}

var topTitlesCmd = &cobra.Command{
	Use:   "top-titles",
	Short: "show the most searched document titles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(dashboardPages...); err != nil {
			return err
		}
		from, to, err := analyticsRange()
		if err != nil {
			return err
		}

		rows, err := app.client.TopTitles(commandContext(cmd), from, to, analyticsLimit)
		if err != nil {
			return reportFailure("Load failed", err)
		}
		ui.Println(ui.RenderTopTitles(rows))
		return nil
	},
}

var satisfactionCmd = &cobra.Command{
	Use:   "satisfaction",
	Short: "show the answer rating summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(dashboardPages...); err != nil {
			return err
		}
		from, to, err := analyticsRange()
		if err != nil {
			return err
		}

		m, err := app.client.Satisfaction(commandContext(cmd), from, to)
		if err != nil {
			return reportFailure("Load failed", err)
		}
		ui.Println(ui.RenderSatisfaction(m))
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "show top titles and satisfaction together",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(dashboardPages...); err != nil {
			return err
		}
		from, to, err := analyticsRange()
		if err != nil {
			return err
		}

		var (
			titles              []types.TitleCount
			rating              *types.SatisfactionMetrics
			titlesErr, ratingErr error
		)
		// Each section stands alone; one failing must not cancel the other.
		ctx := commandContext(cmd)
		var g errgroup.Group
		g.Go(func() error {
			titles, titlesErr = app.client.TopTitles(ctx, from, to, analyticsLimit)
			return nil
		})
		g.Go(func() error {
			rating, ratingErr = app.client.Satisfaction(ctx, from, to)
			return nil
		})
		g.Wait()

		ui.PrintBold("Most searched titles (%s to %s)", from.Format(dateLayout), to.Format(dateLayout))
		if titlesErr != nil {
			reportFailure("Failed to load top titles", titlesErr)
		} else {
			ui.Println(ui.RenderTopTitles(titles))
		}
		ui.Println("")
		ui.PrintBold("Satisfaction")
		if ratingErr != nil {
			reportFailure("Failed to load satisfaction", ratingErr)
		} else {
			ui.Println(ui.RenderSatisfaction(rating))
		}

		if titlesErr != nil || ratingErr != nil {
			return fmt.Errorf("dashboard incomplete")
		}
		return nil
	},
}

// reviewCmd rates the assistant
var reviewCmd = &cobra.Command{
	Use:     "review <rating>",
	Short:   "rate the assistant from 1 to 5",
	Example: `  $ coractl review 5`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[0])
		if err != nil || rating < 1 || rating > 5 {
			ui.PrintError("rating must be a whole number from 1 to 5")
			return fmt.Errorf("invalid arguments")
		}

		resp, err := app.client.SubmitReview(commandContext(cmd), rating)
		if err != nil {
			return reportFailure("Review failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Thanks for your feedback"))
		return nil
	},
}

func init() {
	analyticsCmd.PersistentFlags().StringVar(&analyticsFrom, "from", "", "Start date (YYYY-MM-DD)")
	analyticsCmd.PersistentFlags().StringVar(&analyticsTo, "to", "", "End date (YYYY-MM-DD)")
	topTitlesCmd.Flags().IntVarP(&analyticsLimit, "limit", "n", 5, "Number of titles")
	dashboardCmd.Flags().IntVarP(&analyticsLimit, "limit", "n", 5, "Number of titles")

	analyticsCmd.AddCommand(topTitlesCmd, satisfactionCmd, dashboardCmd)
}

// analyticsRange parses --from and --to, defaulting to the last 30 days
func analyticsRange() (time.Time, time.Time, error) {
	to := time.Now().UTC()
	if analyticsTo != "" {
		t, err := time.Parse(dateLayout, analyticsTo)
		if err != nil {
			ui.PrintError("invalid --to date %q", analyticsTo)
			return time.Time{}, time.Time{}, fmt.Errorf("invalid arguments")
		}
		to = t
	}

	from := to.AddDate(0, 0, -30)
	if analyticsFrom != "" {
		t, err := time.Parse(dateLayout, analyticsFrom)
		if err != nil {
			ui.PrintError("invalid --from date %q", analyticsFrom)
			return time.Time{}, time.Time{}, fmt.Errorf("invalid arguments")
		}
		from = t
	}

	if from.After(to) {
		ui.PrintError("--from must not be after --to")
		return time.Time{}, time.Time{}, fmt.Errorf("invalid arguments")
	}
	return from, to, nil
}
