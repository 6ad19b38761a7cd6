// Package server exposes the analysis engine and ledger reports over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/capital-advisor/internal/config"
	"github.com/iwvelando/capital-advisor/internal/ledger"
	"github.com/iwvelando/capital-advisor/internal/report"
	"github.com/iwvelando/capital-advisor/pkg/analysis"
	"github.com/iwvelando/capital-advisor/pkg/constants"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger         *zap.Logger
	data           *config.Configuration
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the analysis and report API.
// The data configuration backs the read-only report endpoints; it may be nil
// when the server is used for ad-hoc analysis only.
func NewHandler(logger *zap.Logger, data *config.Configuration, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, data: data, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Replacement analysis endpoint (config payload in, results out)
	mux.HandleFunc("/api/analysis", h.handleAnalysis)

	// Ledger report endpoints
	mux.HandleFunc("/api/receivables", h.handleReceivables)
	mux.HandleFunc("/api/payables", h.handlePayables)
	mux.HandleFunc("/api/cashflow", h.handleCashFlow)

	// Config serialization endpoint for downloads
	mux.HandleFunc("/api/export", h.handleConfigExport)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type analysisResponse struct {
	Analyses   []analysisResult `json:"analyses"`
	Warnings   []string         `json:"warnings,omitempty"`
	Duration   string           `json:"duration"`
	ConfigYAML string           `json:"configYaml,omitempty"`
}

type analysisResult struct {
	Name              string                  `json:"name"`
	ID                string                  `json:"id"`
	Defender          string                  `json:"defender"`
	Challenger        string                  `json:"challenger"`
	PVDefender        float64                 `json:"pvDefender"`
	EACDefender       float64                 `json:"eacDefender"`
	PVChallenger      float64                 `json:"pvChallenger"`
	EACChallenger     float64                 `json:"eacChallenger"`
	Recommendation    string                  `json:"recommendation"`
	FlowsDefender     []analysis.CashFlowYear `json:"flowsDefender"`
	FlowsChallenger   []analysis.CashFlowYear `json:"flowsChallenger"`
	FinancingSchedule []financingRow          `json:"financingSchedule,omitempty"`
}

type financingRow struct {
	Month          int     `json:"month"`
	OpeningBalance float64 `json:"openingBalance"`
	Payment        float64 `json:"payment"`
	Principal      float64 `json:"principal"`
	Interest       float64 `json:"interest"`
	ClosingBalance float64 `json:"closingBalance"`
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleAnalysis")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleAnalysis")
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleAnalysis")
		return
	}

	warnings := cfg.ValidateConfiguration()
	analyzer := analysis.NewAnalyzer(h.logger)

	results := make([]analysisResult, 0, len(cfg.Analyses))
	for _, spec := range cfg.Analyses {
		defender, err := cfg.MachineByName(spec.Defender)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleAnalysis")
			return
		}
		challenger, err := cfg.MachineByName(spec.Challenger)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleAnalysis")
			return
		}

		result := analyzer.Analyze(defender.Asset(), challenger.Asset(), spec.Parameters())
		results = append(results, buildAnalysisResult(spec, result))
	}

	elapsed := time.Since(start)
	h.logger.Info("analysis computed",
		zap.String("op", "server.handleAnalysis"),
		zap.Int("analyses", len(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, analysisResponse{
		Analyses:   results,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	})
}

func buildAnalysisResult(spec config.AnalysisSpec, result analysis.Result) analysisResult {
	schedule := make([]financingRow, 0, len(result.FinancingSchedule))
	for _, row := range result.FinancingSchedule {
		schedule = append(schedule, financingRow{
			Month:          row.Month,
			OpeningBalance: row.OpeningBalance.InexactFloat64(),
			Payment:        row.Payment.InexactFloat64(),
			Principal:      row.Principal.InexactFloat64(),
			Interest:       row.Interest.InexactFloat64(),
			ClosingBalance: row.ClosingBalance.InexactFloat64(),
		})
	}

	return analysisResult{
		Name:              spec.Name,
		ID:                result.ID.String(),
		Defender:          spec.Defender,
		Challenger:        spec.Challenger,
		PVDefender:        result.PVDefender,
		EACDefender:       result.EACDefender,
		PVChallenger:      result.PVChallenger,
		EACChallenger:     result.EACChallenger,
		Recommendation:    result.Recommendation,
		FlowsDefender:     result.FlowsDefender,
		FlowsChallenger:   result.FlowsChallenger,
		FinancingSchedule: schedule,
	}
}

type receivablesResponse struct {
	Anchor  string                      `json:"anchor"`
	Rows    []report.ReceivableRow      `json:"rows"`
	Summary report.ReceivablesSummary   `json:"summary"`
	Aging   []report.CollectionAgingRow `json:"aging"`
}

func (h *handler) handleReceivables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ledgers, anchor, ok := h.reportInputs(w, r, "server.handleReceivables")
	if !ok {
		return
	}

	rows, summary := report.BuildReceivables(ledgers, h.data.ClientIndex(), anchor)
	h.writeJSON(w, http.StatusOK, receivablesResponse{
		Anchor:  datetime.FormatDate(anchor),
		Rows:    rows,
		Summary: summary,
		Aging:   report.BuildCollectionAging(ledgers, anchor),
	})
}

type payablesResponse struct {
	Anchor string              `json:"anchor"`
	Rows   []report.PayableRow `json:"rows"`
	Flow   []report.FlowReport `json:"flow"`
}

func (h *handler) handlePayables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ledgers, anchor, ok := h.reportInputs(w, r, "server.handlePayables")
	if !ok {
		return
	}

	flow := make([]report.FlowReport, 0, len(ledgers))
	for _, l := range ledgers {
		flow = append(flow, report.BuildFlowReport(l, anchor))
	}

	h.writeJSON(w, http.StatusOK, payablesResponse{
		Anchor: datetime.FormatDate(anchor),
		Rows:   report.BuildPayables(ledgers, anchor),
		Flow:   flow,
	})
}

type cashFlowResponse struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Days    []cashFlowDay   `json:"days"`
	Summary cashFlowSummary `json:"summary"`
}

type cashFlowDay struct {
	Date            string  `json:"date"`
	ExpectedInflow  float64 `json:"expectedInflow"`
	ExpectedOutflow float64 `json:"expectedOutflow"`
	Net             float64 `json:"net"`
	Running         float64 `json:"running"`
}

type cashFlowSummary struct {
	TotalInflow      float64 `json:"totalInflow"`
	TotalOutflow     float64 `json:"totalOutflow"`
	NetFlow          float64 `json:"netFlow"`
	MinRunning       float64 `json:"minRunning"`
	MaxRunning       float64 `json:"maxRunning"`
	NegativeFlowDays int     `json:"negativeFlowDays"`
	PeriodDays       int     `json:"periodDays"`
}

func (h *handler) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.data == nil {
		h.respondError(w, http.StatusServiceUnavailable, "no ledger data configured", "server.handleCashFlow")
		return
	}

	start, end, err := h.data.ProjectionRange()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), "server.handleCashFlow")
		return
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err = datetime.ParseDate(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid start date: %v", err), "server.handleCashFlow")
			return
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err = datetime.ParseDate(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid end date: %v", err), "server.handleCashFlow")
			return
		}
	}
	if end.Before(start) {
		h.respondError(w, http.StatusBadRequest, "end date precedes start date", "server.handleCashFlow")
		return
	}

	ledgers, err := h.data.BuildLedgers()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), "server.handleCashFlow")
		return
	}

	var events []ledger.CashFlowEvent
	for _, l := range ledgers {
		events = append(events, l.ProjectCashFlow(start, end)...)
	}
	days, summary := ledger.GroupByDay(events, start, end)

	response := cashFlowResponse{
		Start: datetime.FormatDate(start),
		End:   datetime.FormatDate(end),
		Days:  make([]cashFlowDay, 0, len(days)),
		Summary: cashFlowSummary{
			TotalInflow:      summary.TotalInflow.InexactFloat64(),
			TotalOutflow:     summary.TotalOutflow.InexactFloat64(),
			NetFlow:          summary.NetFlow.InexactFloat64(),
			MinRunning:       summary.MinRunning.InexactFloat64(),
			MaxRunning:       summary.MaxRunning.InexactFloat64(),
			NegativeFlowDays: summary.NegativeFlowDays,
			PeriodDays:       summary.PeriodDays,
		},
	}
	for _, day := range days {
		response.Days = append(response.Days, cashFlowDay{
			Date:            datetime.FormatDate(day.Date),
			ExpectedInflow:  day.ExpectedInflow.InexactFloat64(),
			ExpectedOutflow: day.ExpectedOutflow.InexactFloat64(),
			Net:             day.Net.InexactFloat64(),
			Running:         day.Running.InexactFloat64(),
		})
	}

	h.writeJSON(w, http.StatusOK, response)
}

// reportInputs resolves the ledgers and anchor date shared by the report
// endpoints. The anchor query parameter overrides the configured one.
func (h *handler) reportInputs(w http.ResponseWriter, r *http.Request, op string) ([]*ledger.Ledger, time.Time, bool) {
	if h.data == nil {
		h.respondError(w, http.StatusServiceUnavailable, "no ledger data configured", op)
		return nil, time.Time{}, false
	}

	anchor, err := h.data.AnchorDate()
	if raw := r.URL.Query().Get("anchor"); raw != "" {
		anchor, err = datetime.ParseDate(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid anchor date: %v", err), op)
			return nil, time.Time{}, false
		}
	} else if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return nil, time.Time{}, false
	}

	ledgers, err := h.data.BuildLedgers()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return nil, time.Time{}, false
	}

	return ledgers, anchor, true
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "reporting"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
