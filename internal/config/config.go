// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/capital-advisor/internal/ledger"
	"github.com/iwvelando/capital-advisor/pkg/analysis"
	"github.com/iwvelando/capital-advisor/pkg/constants"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/iwvelando/capital-advisor/pkg/moneyutil"
	"github.com/iwvelando/capital-advisor/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for capital-advisor.
type Configuration struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Reporting ReportingConfig `yaml:"reporting,omitempty"`
	Machines  []Machine
	Analyses  []AnalysisSpec
	Clients   []ClientConfig
	Suppliers []SupplierConfig
	Records   []RecordConfig
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ReportingConfig pins the dates reports are computed against. Reports never
// read the wall clock; the anchor date is always explicit.
type ReportingConfig struct {
	AnchorDate string `yaml:"anchorDate"`
	StartDate  string `yaml:"startDate,omitempty"`
	EndDate    string `yaml:"endDate,omitempty"`
}

// Machine describes one piece of equipment available to replacement analyses.
type Machine struct {
	Name                        string
	PurchasePrice               float64
	InstallationAndTrainingCost float64
	SetupCosts                  float64
	CurrentResaleValue          float64
	SalvageValue                float64
	AcquisitionCost             float64
	AnnualMaintenance           float64
	OperatorLaborRate           float64
	MonthlyOperatingHours       float64
	UsefulLifeMonths            int
}

// Asset converts the config entry into the analysis input type.
func (m Machine) Asset() analysis.Asset {
	return analysis.Asset{
		Name:                        m.Name,
		PurchasePrice:               m.PurchasePrice,
		InstallationAndTrainingCost: m.InstallationAndTrainingCost,
		SetupCosts:                  m.SetupCosts,
		CurrentResaleValue:          m.CurrentResaleValue,
		SalvageValue:                m.SalvageValue,
		AcquisitionCost:             m.AcquisitionCost,
		AnnualMaintenance:           m.AnnualMaintenance,
		OperatorLaborRate:           m.OperatorLaborRate,
		MonthlyOperatingHours:       m.MonthlyOperatingHours,
		UsefulLifeMonths:            m.UsefulLifeMonths,
	}
}

// AnalysisSpec names a Defender vs. Challenger comparison to run. WACC and
// taxRate are fractional; financingRate is a nominal annual percentage.
type AnalysisSpec struct {
	Name            string
	Defender        string
	Challenger      string
	WACC            float64
	TaxRate         float64
	FinancingRate   float64
	FinancingMonths int
}

// Parameters converts the spec's financial inputs into the analysis
// parameter type.
func (s AnalysisSpec) Parameters() analysis.Parameters {
	return analysis.Parameters{
		WACC:            s.WACC,
		TaxRate:         s.TaxRate,
		FinancingRate:   decimal.NewFromFloat(s.FinancingRate),
		FinancingMonths: s.FinancingMonths,
	}
}

// ClientConfig describes one billing counterparty.
type ClientConfig struct {
	ID                string
	Name              string
	City              string
	Email             string
	Phone             string
	ContractTermsDays int
	Notes             string
}

// SupplierConfig describes one supplier counterparty.
type SupplierConfig struct {
	ID               string
	Name             string
	Contact          string
	Email            string
	Phone            string
	PaymentTermsDays int
}

// RecordConfig is one billing record. The three entry lists are carried in
// their wire form (raw maps) and decoded with the ledger package's wire
// parsing so config files and persisted data share one format.
type RecordConfig struct {
	ID               string
	ClientID         string
	DeliveryDate     string
	BilledAmount     string
	Notes            string
	Obligations      []map[string]interface{}
	ClientPayments   []map[string]interface{}
	SupplierPayments []map[string]interface{}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory source, e.g. an HTTP request body.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// AnchorDate parses the reporting anchor date. There is no wall-clock
// fallback; an unset anchor is an error.
func (conf *Configuration) AnchorDate() (time.Time, error) {
	if conf.Reporting.AnchorDate == "" {
		return time.Time{}, fmt.Errorf("reporting.anchorDate is required")
	}
	return datetime.ParseDate(conf.Reporting.AnchorDate)
}

// ProjectionRange parses the reporting start and end dates, defaulting to a
// 30-day window from the anchor when unset.
func (conf *Configuration) ProjectionRange() (time.Time, time.Time, error) {
	anchor, err := conf.AnchorDate()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := anchor
	if conf.Reporting.StartDate != "" {
		start, err = datetime.ParseDate(conf.Reporting.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	end := datetime.OffsetDays(start, constants.DefaultSupplierTermsDays)
	if conf.Reporting.EndDate != "" {
		end, err = datetime.ParseDate(conf.Reporting.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return start, end, nil
}

// MachineByName looks up a configured machine.
func (conf *Configuration) MachineByName(name string) (Machine, error) {
	for _, m := range conf.Machines {
		if m.Name == name {
			return m, nil
		}
	}
	return Machine{}, fmt.Errorf("machine %s not found in configuration", name)
}

// ClientIndex builds the client lookup keyed by id.
func (conf *Configuration) ClientIndex() map[string]ledger.Client {
	clients := make(map[string]ledger.Client, len(conf.Clients))
	for _, c := range conf.Clients {
		terms := c.ContractTermsDays
		if terms == 0 {
			terms = constants.DefaultSupplierTermsDays
		}
		clients[c.ID] = ledger.Client{
			ID:                c.ID,
			Name:              c.Name,
			City:              c.City,
			Email:             c.Email,
			Phone:             c.Phone,
			ContractTermsDays: terms,
			Notes:             c.Notes,
		}
	}
	return clients
}

// SupplierIndex builds the supplier lookup keyed by id.
func (conf *Configuration) SupplierIndex() map[string]ledger.Supplier {
	suppliers := make(map[string]ledger.Supplier, len(conf.Suppliers))
	for _, s := range conf.Suppliers {
		suppliers[s.ID] = ledger.Supplier{
			ID:               s.ID,
			Name:             s.Name,
			Contact:          s.Contact,
			Email:            s.Email,
			Phone:            s.Phone,
			PaymentTermsDays: s.PaymentTermsDays,
		}
	}
	return suppliers
}

// decodeWireList round-trips raw config maps through JSON into the typed
// wire records so both sources share one parser.
func decodeWireList(raw []map[string]interface{}, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}

// BuildLedger materializes one record config into a ledger. The collection
// due date comes from the client's contractual terms; entry lists decode
// leniently, skipping malformed entries the way the wire parser does. An
// obligation without a due date gets one derived from its supplier's payment
// terms, counted from the delivery date.
func (rc RecordConfig) BuildLedger(clients map[string]ledger.Client, suppliers map[string]ledger.Supplier) (*ledger.Ledger, error) {
	client, ok := clients[rc.ClientID]
	if !ok {
		return nil, fmt.Errorf("record %s references unknown client %s", rc.ID, rc.ClientID)
	}

	deliveryDate, err := datetime.ParseDate(rc.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("record %s delivery date: %w", rc.ID, err)
	}

	billedAmount, err := moneyutil.ParseAmount(rc.BilledAmount)
	if err != nil {
		return nil, fmt.Errorf("record %s billed amount: %w", rc.ID, err)
	}

	var obligations []ledger.ObligationRecord
	if err := decodeWireList(rc.Obligations, &obligations); err != nil {
		return nil, fmt.Errorf("record %s obligations: %w", rc.ID, err)
	}
	var clientPayments []ledger.PaymentRecord
	if err := decodeWireList(rc.ClientPayments, &clientPayments); err != nil {
		return nil, fmt.Errorf("record %s client payments: %w", rc.ID, err)
	}
	var supplierPayments []ledger.SupplierPaymentRecord
	if err := decodeWireList(rc.SupplierPayments, &supplierPayments); err != nil {
		return nil, fmt.Errorf("record %s supplier payments: %w", rc.ID, err)
	}

	l := ledger.New(rc.ID, client, deliveryDate, billedAmount)
	l.Notes = rc.Notes
	l.Obligations = ledger.DecodeObligations(obligations)
	l.ClientPayments = ledger.DecodePayments(clientPayments)
	l.SupplierPayments = ledger.DecodeSupplierPayments(supplierPayments)

	for i := range l.Obligations {
		if !l.Obligations[i].DueDate.IsZero() {
			continue
		}
		var supplier *ledger.Supplier
		if s, ok := suppliers[l.Obligations[i].SupplierID]; ok {
			supplier = &s
		}
		l.Obligations[i].DueDate = ledger.ObligationDueDate(deliveryDate, supplier)
	}

	l.RefreshCollectionState()
	return l, nil
}

// BuildLedgers materializes every configured record.
func (conf *Configuration) BuildLedgers() ([]*ledger.Ledger, error) {
	clients := conf.ClientIndex()
	suppliers := conf.SupplierIndex()
	ledgers := make([]*ledger.Ledger, 0, len(conf.Records))
	for _, rc := range conf.Records {
		l, err := rc.BuildLedger(clients, suppliers)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	machines := make([]string, 0, len(conf.Machines))
	for _, m := range conf.Machines {
		machines = append(machines, m.Name)
	}

	var analyses []validation.AnalysisInfo
	for _, spec := range conf.Analyses {
		analyses = append(analyses, validation.AnalysisInfo{
			Name:       spec.Name,
			Defender:   spec.Defender,
			Challenger: spec.Challenger,
			WACC:       spec.WACC,
			TaxRate:    spec.TaxRate,
		})
	}

	clients := make([]string, 0, len(conf.Clients))
	for _, c := range conf.Clients {
		clients = append(clients, c.ID)
	}

	var records []validation.RecordInfo
	for _, rc := range conf.Records {
		records = append(records, validation.RecordInfo{
			ID:           rc.ID,
			ClientID:     rc.ClientID,
			DeliveryDate: rc.DeliveryDate,
			BilledAmount: rc.BilledAmount,
		})
	}

	validator := validation.ConfigValidator{
		Machines: machines,
		Analyses: analyses,
		Clients:  clients,
		Records:  records,
	}
	return validator.ValidateAll()
}
