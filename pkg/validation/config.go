// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/iwvelando/capital-advisor/pkg/moneyutil"
)

// ValidateAnalysisRefs checks that an analysis references configured machines.
func ValidateAnalysisRefs(analysisName, defender, challenger string, machines []string) []string {
	var warnings []string

	known := make(map[string]bool, len(machines))
	for _, name := range machines {
		known[name] = true
	}

	if !known[defender] {
		warnings = append(warnings, fmt.Sprintf("Analysis '%s' references unknown defender machine '%s'",
			analysisName, defender))
	}
	if !known[challenger] {
		warnings = append(warnings, fmt.Sprintf("Analysis '%s' references unknown challenger machine '%s'",
			analysisName, challenger))
	}

	return warnings
}

// ValidateRates checks that WACC and tax rate are fractional values.
func ValidateRates(analysisName string, wacc, taxRate float64) []string {
	var warnings []string

	if wacc <= 0 || wacc >= 1 {
		warnings = append(warnings, fmt.Sprintf("Analysis '%s' has WACC %.4f outside (0, 1) - expected a fraction, not a percentage",
			analysisName, wacc))
	}
	if taxRate < 0 || taxRate >= 1 {
		warnings = append(warnings, fmt.Sprintf("Analysis '%s' has tax rate %.4f outside [0, 1) - expected a fraction, not a percentage",
			analysisName, taxRate))
	}

	return warnings
}

// ValidateRecord checks one billing record's client reference, delivery date,
// and billed amount.
func ValidateRecord(recordID, clientID, deliveryDate, billedAmount string, clients []string) []string {
	var warnings []string

	found := false
	for _, id := range clients {
		if id == clientID {
			found = true
			break
		}
	}
	if !found {
		warnings = append(warnings, fmt.Sprintf("Record '%s' references unknown client '%s'", recordID, clientID))
	}

	if _, err := datetime.ParseDate(deliveryDate); err != nil {
		warnings = append(warnings, fmt.Sprintf("Record '%s' has unparseable delivery date '%s'", recordID, deliveryDate))
	}

	if _, err := moneyutil.ParseAmount(billedAmount); err != nil {
		warnings = append(warnings, fmt.Sprintf("Record '%s' has unparseable billed amount '%s'", recordID, billedAmount))
	}

	return warnings
}

// AnalysisInfo carries the analysis fields validation needs.
type AnalysisInfo struct {
	Name       string
	Defender   string
	Challenger string
	WACC       float64
	TaxRate    float64
}

// RecordInfo carries the record fields validation needs.
type RecordInfo struct {
	ID           string
	ClientID     string
	DeliveryDate string
	BilledAmount string
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Machines []string
	Analyses []AnalysisInfo
	Clients  []string
	Records  []RecordInfo
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	for _, a := range cv.Analyses {
		warnings = append(warnings, ValidateAnalysisRefs(a.Name, a.Defender, a.Challenger, cv.Machines)...)
		warnings = append(warnings, ValidateRates(a.Name, a.WACC, a.TaxRate)...)
	}

	for _, r := range cv.Records {
		warnings = append(warnings, ValidateRecord(r.ID, r.ClientID, r.DeliveryDate, r.BilledAmount, cv.Clients)...)
	}

	return warnings
}
