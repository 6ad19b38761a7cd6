package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/capital-advisor/pkg/analysis"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func testResults() []NamedResult {
	analyzer := analysis.NewAnalyzer(nil)
	result := analyzer.Analyze(
		analysis.Asset{Name: "Old press", AcquisitionCost: 50000, CurrentResaleValue: 30000, UsefulLifeMonths: 120},
		analysis.Asset{Name: "New press", PurchasePrice: 80000, UsefulLifeMonths: 180},
		analysis.Parameters{WACC: 0.1, TaxRate: 0.21},
	)
	return []NamedResult{{Name: "Press replacement", Result: result}}
}

func TestPrettyFormat(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(testResults())
	})

	if !strings.Contains(output, "--- Results for analysis Press replacement ---") {
		t.Errorf("PrettyFormat missing analysis header")
	}
	if !strings.Contains(output, "Defender") || !strings.Contains(output, "Challenger") {
		t.Errorf("PrettyFormat missing asset rows")
	}
	if !strings.Contains(output, "Recommendation:") {
		t.Errorf("PrettyFormat missing recommendation")
	}
}

func TestCsvFormat(t *testing.T) {
	output := captureStdout(t, func() {
		CsvFormat(testResults())
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if lines[0] != `"analysis","asset","year","gross","depreciation","tax shield","after tax","present value"` {
		t.Errorf("CsvFormat header = %s", lines[0])
	}
	// Ten defender years plus fifteen challenger years.
	if len(lines) != 26 {
		t.Errorf("expected 26 lines, got %d", len(lines))
	}
	if !strings.Contains(output, `"Press replacement","defender","1"`) {
		t.Errorf("CsvFormat missing defender rows")
	}
}
