package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	xbrlstmt "github.com/RxDataLab/xbrl-statements"
)

var stitchCmd = &cobra.Command{
	Use:   "stitch --instance FILE --presentation FILE --filed-date DATE [--instance FILE --presentation FILE --filed-date DATE ...]",
	Short: "Stitch statements from multiple filings of the same entity into one multi-period view",
	Long: `stitch accepts repeated --instance/--presentation/--filed-date flag groups,
one per filing, and merges their primary statement of the requested type into a
single multi-period statement, deduplicating overlapping period-ends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		instances, _ := cmd.Flags().GetStringArray("instance")
		presentations, _ := cmd.Flags().GetStringArray("presentation")
		filedDates, _ := cmd.Flags().GetStringArray("filed-date")
		stmtTypeFlag, _ := cmd.Flags().GetString("statement")
		industry, _ := cmd.Flags().GetString("industry")

		core, err := xbrlstmt.LoadCoreMappings()
		if err != nil {
			return fmt.Errorf("loading core mappings: %w", err)
		}

		if len(instances) == 0 || len(instances) != len(presentations) || len(instances) != len(filedDates) {
			return fmt.Errorf("--instance, --presentation, and --filed-date must be repeated the same number of times, once per filing")
		}

		stmtType := xbrlstmt.StatementType(stmtTypeFlag)

		var summaries []xbrlstmt.FilingSummary
		for i := range instances {
			instanceBytes, err := os.ReadFile(instances[i])
			if err != nil {
				return err
			}
			presentationBytes, err := os.ReadFile(presentations[i])
			if err != nil {
				return err
			}

			docs := xbrlstmt.FilingDocuments{
				Accession:    instances[i],
				Instance:     instanceBytes,
				Presentation: presentationBytes,
				FiledDate:    filedDates[i],
				Industry:     industry,
			}

			pf := xbrlstmt.Parse(docs)
			if !pf.Result.OK() {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", instances[i], pf.Result.Fatal)
				continue
			}
			if pf.Presentation == nil {
				continue
			}

			filedDate, err := time.Parse("2006-01-02", filedDates[i])
			if err != nil {
				return fmt.Errorf("bad --filed-date %q: %w", filedDates[i], err)
			}

			std := xbrlstmt.NewStandardizer(xbrlstmt.MappingSet{Core: core}, pf.Metadata.Industry)
			builder := xbrlstmt.NewBuilder(pf.Presentation, pf.Labels, pf.Store, std).WithAccession(instances[i])
			selector := xbrlstmt.NewPeriodSelector(pf.Store, xbrlstmt.FiscalYearEnd{})
			periods, err := selector.Select("annual")
			if err != nil {
				continue
			}

			var roleURI string
			for uri, network := range pf.Presentation.Roles {
				resolved, _ := xbrlstmt.ResolveStatementType(uri, network.Definition, network.Roots)
				if resolved == stmtType {
					roleURI = uri
					break
				}
			}
			if roleURI == "" {
				continue
			}

			stmt := builder.Build(roleURI, stmtType, periods)
			summaries = append(summaries, xbrlstmt.FilingSummary{
				Accession:          instances[i],
				FiledDate:          filedDate,
				Statement:          stmt,
				Completeness:       countNonEmptyCells(stmt),
				ReportedFiscalYear: pf.Metadata.FiscalYear,
			})
		}

		if len(summaries) == 0 {
			return fmt.Errorf("no filings produced a %s statement", stmtType)
		}

		std := xbrlstmt.NewStandardizer(xbrlstmt.MappingSet{Core: core}, industry)
		stitcher := xbrlstmt.NewStitcher(xbrlstmt.FiscalYearEnd{}, std)
		merged := stitcher.Stitch(summaries)
		printStatement(merged)

		return nil
	},
}

func countNonEmptyCells(s *xbrlstmt.Statement) int {
	n := 0
	for _, row := range s.Rows {
		n += len(row.Values)
	}
	return n
}

func init() {
	stitchCmd.Flags().StringArray("instance", nil, "path to an instance document (repeat per filing)")
	stitchCmd.Flags().StringArray("presentation", nil, "path to a presentation linkbase (repeat per filing)")
	stitchCmd.Flags().StringArray("filed-date", nil, "filing date YYYY-MM-DD (repeat per filing)")
	stitchCmd.Flags().String("statement", strings.TrimSpace(string(xbrlstmt.StatementIncomeStatement)), "statement type to stitch")
	stitchCmd.Flags().String("industry", "", "filer industry classification, used to activate industry mapping rules")
}
