// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"fmt"

	"github.com/iwvelando/capital-advisor/pkg/analysis"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NamedResult pairs an analysis result with its configured name.
type NamedResult struct {
	Name   string
	Result analysis.Result
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []NamedResult) {
	p := message.NewPrinter(language.English)
	for _, r := range results {
		fmt.Printf("--- Results for analysis %s ---\n", r.Name)
		_, _ = p.Printf("Defender   | PV $%.2f | EAC $%.2f\n", r.Result.PVDefender, r.Result.EACDefender)
		_, _ = p.Printf("Challenger | PV $%.2f | EAC $%.2f\n", r.Result.PVChallenger, r.Result.EACChallenger)
		fmt.Printf("Recommendation: %s\n", r.Result.Recommendation)

		if len(r.Result.FinancingSchedule) > 0 {
			fmt.Printf("\nFinancing schedule:\n")
			fmt.Printf("Month | Payment       | Principal     | Interest      | Balance\n")
			fmt.Printf("_____ | _____________ | _____________ | _____________ | _____________\n")
			for _, row := range r.Result.FinancingSchedule {
				_, _ = p.Printf("%5d | $%.2f | $%.2f | $%.2f | $%.2f\n",
					row.Month,
					row.Payment.InexactFloat64(),
					row.Principal.InexactFloat64(),
					row.Interest.InexactFloat64(),
					row.ClosingBalance.InexactFloat64())
			}
		}
		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs the per-year cost streams in comma-separated value format.
func CsvFormat(results []NamedResult) {
	fmt.Printf(`"analysis","asset","year","gross","depreciation","tax shield","after tax","present value"`)
	fmt.Printf("\n")
	for _, r := range results {
		writeFlowRows(r.Name, "defender", r.Result.FlowsDefender)
		writeFlowRows(r.Name, "challenger", r.Result.FlowsChallenger)
	}
}

func writeFlowRows(name, asset string, flows []analysis.CashFlowYear) {
	for _, flow := range flows {
		fmt.Printf(`"%s","%s","%d","%.2f","%.2f","%.2f","%.2f","%.2f"`,
			name, asset, flow.Year, flow.GrossCashFlow, flow.Depreciation,
			flow.TaxShield, flow.AfterTaxCashFlow, flow.PresentValue)
		fmt.Printf("\n")
	}
}
