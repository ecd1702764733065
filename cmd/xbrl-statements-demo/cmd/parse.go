package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	xbrlstmt "github.com/RxDataLab/xbrl-statements"
)

var parseView string

var parseCmd = &cobra.Command{
	Use:   "parse --instance FILE [--schema FILE] [--presentation FILE] [--calculation FILE] [--labels FILE]",
	Short: "Parse one filing's documents and print its resolved statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		instancePath, _ := cmd.Flags().GetString("instance")
		if instancePath == "" {
			return fmt.Errorf("--instance is required")
		}

		industry, _ := cmd.Flags().GetString("industry")
		docs := xbrlstmt.FilingDocuments{Accession: instancePath, Industry: industry}

		var err error
		if docs.Instance, err = readFlagFile(cmd, "instance"); err != nil {
			return err
		}
		if docs.Schema, err = readOptionalFlagFile(cmd, "schema"); err != nil {
			return err
		}
		if docs.Presentation, err = readOptionalFlagFile(cmd, "presentation"); err != nil {
			return err
		}
		if docs.Calculation, err = readOptionalFlagFile(cmd, "calculation"); err != nil {
			return err
		}
		if docs.Definition, err = readOptionalFlagFile(cmd, "definition"); err != nil {
			return err
		}
		if docs.Labels, err = readOptionalFlagFile(cmd, "labels"); err != nil {
			return err
		}

		pf := xbrlstmt.Parse(docs)
		if !pf.Result.OK() {
			return fmt.Errorf("parse failed: %w", pf.Result.Fatal)
		}
		for _, w := range pf.Result.Warnings.Errors {
			fmt.Fprintf(os.Stderr, "warning: %v\n", w)
		}

		fmt.Printf("company: %s (CIK %s)\n", pf.Metadata.CompanyName, pf.Metadata.CIK)
		fmt.Printf("form: %s, fiscal period: %s\n", pf.Metadata.FormType, pf.Metadata.FiscalPeriod)
		fmt.Printf("facts loaded: %d\n", pf.Store.Len())

		if pf.Presentation == nil {
			return nil
		}

		selector := xbrlstmt.NewPeriodSelector(pf.Store, xbrlstmt.FiscalYearEnd{})
		periods, err := selector.Select(parseView)
		if err != nil {
			return fmt.Errorf("selecting periods: %w", err)
		}

		core, err := xbrlstmt.LoadCoreMappings()
		if err != nil {
			return fmt.Errorf("loading core mappings: %w", err)
		}
		std := xbrlstmt.NewStandardizer(xbrlstmt.MappingSet{Core: core}, pf.Metadata.Industry)

		builder := xbrlstmt.NewBuilder(pf.Presentation, pf.Labels, pf.Store, std).WithAccession(instancePath)
		for roleURI, network := range pf.Presentation.Roles {
			stmt, _ := xbrlstmt.ResolveStatementType(roleURI, network.Definition, network.Roots)
			if stmt == xbrlstmt.StatementUnknown {
				continue
			}
			built := builder.Build(roleURI, stmt, periods)
			printStatement(built)
		}

		return nil
	},
}

func printStatement(s *xbrlstmt.Statement) {
	fmt.Printf("\n=== %s ===\n", s.Type)
	for i, col := range s.Columns {
		fmt.Printf("column %d: %s (FY %d)\n", i, col.PeriodLabel, col.FiscalYear)
	}
	for _, row := range s.Rows {
		label := row.Label
		if row.CanonicalConceptID != "" {
			label = fmt.Sprintf("%s [%s]", label, row.CanonicalConceptID)
		}
		fmt.Printf("%s%s\n", indent(row.Depth), label)
		for _, p := range s.Periods {
			if f, ok := row.Values[p.Key()]; ok {
				fmt.Printf("%s  %s: %s\n", indent(row.Depth), p.Key(), f.Value)
			}
		}
	}
}

func indent(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "  "
	}
	return out
}

func readFlagFile(cmd *cobra.Command, flag string) ([]byte, error) {
	path, _ := cmd.Flags().GetString(flag)
	return os.ReadFile(path)
}

func readOptionalFlagFile(cmd *cobra.Command, flag string) ([]byte, error) {
	path, _ := cmd.Flags().GetString(flag)
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

func init() {
	parseCmd.Flags().String("instance", "", "path to the instance document (standalone XML or inline-XBRL HTML)")
	parseCmd.Flags().String("schema", "", "path to the taxonomy extension schema")
	parseCmd.Flags().String("presentation", "", "path to the presentation linkbase")
	parseCmd.Flags().String("calculation", "", "path to the calculation linkbase")
	parseCmd.Flags().String("definition", "", "path to the definition linkbase")
	parseCmd.Flags().String("labels", "", "path to the label linkbase")
	parseCmd.Flags().StringVar(&parseView, "view", "annual", "period view: annual, quarterly, latest-instant, trailing-twelve")
	parseCmd.Flags().String("industry", "", "filer industry classification, used to activate industry mapping rules")
}
