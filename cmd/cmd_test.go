package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
	"github.com/jarcoal/httpmock"
)

const testLedger = `{
	"currency": "CHF",
	"cash": 500,
	"transactions": [
		{"isin": "IE00B4L5Y983", "quantity": 10, "price": 100, "currency_rate": 1, "fees": 5, "datetime": "2024-01-10 09:00"}
	]
}`

const testConfig = `
securities:
  IE00B4L5Y983: SWDA.SW
quotes:
  base_url: https://yahoo.test
  requests_per_minute: 6000
`

const swdaChart = `{"chart":{"result":[{
	"meta":{"currency":"CHF","symbol":"SWDA.SW","regularMarketPrice":102.5},
	"timestamp":[1704877200,1704880800,1704884400],
	"indicators":{"quote":[{"close":[101,null,102.5]}]}
}],"error":null}}`

const fxChart = `{"chart":{"result":[{
	"meta":{"currency":"CHF","symbol":"USDCHF=X","regularMarketPrice":0.86},
	"timestamp":[1704877200,1704880800,1704884400],
	"indicators":{"quote":[{"close":[0.85,0.86,0.86]}]}
}],"error":null}}`

// setup points the global flags to a temporary ledger and configuration, and the quote
// provider to a mock. It returns the mock and the command output.
func setup(t *testing.T) (*httpmock.MockTransport, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	ledger := filepath.Join(dir, "portfolio.json")
	if err := os.WriteFile(ledger, []byte(testLedger), 0o644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "nw.yaml")
	if err := os.WriteFile(config, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, "https://yahoo.test/v8/finance/chart/SWDA.SW", httpmock.NewStringResponder(http.StatusOK, swdaChart))
	mock.RegisterResponder(http.MethodGet, "https://yahoo.test/v8/finance/chart/USDCHF=X", httpmock.NewStringResponder(http.StatusOK, fxChart))

	var out bytes.Buffer
	oldConfig, oldLedger, oldTransport, oldStdout := *configFile, *ledgerFile, transport, stdout
	*configFile, *ledgerFile, transport, stdout = config, ledger, mock, &out
	t.Cleanup(func() {
		*configFile, *ledgerFile, transport, stdout = oldConfig, oldLedger, oldTransport, oldStdout
	})
	return mock, &out
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestSummaryCmd(t *testing.T) {
	_, out := setup(t)
	if status := execute(t, &summaryCmd{}, "-ticker", "-pie", "market"); status != subcommands.ExitSuccess {
		t.Fatalf("summary = %v, want %v", status, subcommands.ExitSuccess)
	}
	for _, want := range []string{
		"# Net Worth: " + networth.M(1525, "CHF").String(),
		"| IE00B4L5Y983 | SWDA.SW |",
		"## Diversification by market value",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary output does not contain %q:\n%s", want, out)
		}
	}
}

func TestSummaryCmd_JSON(t *testing.T) {
	_, out := setup(t)
	if status := execute(t, &summaryCmd{}, "-json"); status != subcommands.ExitSuccess {
		t.Fatalf("summary -json = %v, want %v", status, subcommands.ExitSuccess)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("summary -json is not JSON: %v\n%s", err, out)
	}
	for _, key := range []string{"overview", "valuation"} {
		if _, ok := got[key]; !ok {
			t.Errorf("summary -json has no %q", key)
		}
	}
}

func TestSummaryCmd_Errors(t *testing.T) {
	setup(t)
	if status := execute(t, &summaryCmd{}, "-pie", "donut"); status != subcommands.ExitUsageError {
		t.Errorf("summary -pie donut = %v, want %v", status, subcommands.ExitUsageError)
	}

	*ledgerFile = filepath.Join(t.TempDir(), "missing.json")
	if status := execute(t, &summaryCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("summary of a missing ledger = %v, want %v", status, subcommands.ExitUsageError)
	}
}

func TestHistoryCmd(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "# History"},
		{[]string{"-monthly"}, "# Monthly Returns"},
		{[]string{"-json", "-n", "1"}, "["},
	}
	for _, test := range tests {
		_, out := setup(t)
		if status := execute(t, &historyCmd{}, test.args...); status != subcommands.ExitSuccess {
			t.Errorf("history %v = %v, want %v", test.args, status, subcommands.ExitSuccess)
		}
		if !strings.HasPrefix(out.String(), test.want) {
			t.Errorf("history %v output:\n%s\nwant prefix %q", test.args, out, test.want)
		}
	}

	setup(t)
	if status := execute(t, &historyCmd{}, "-n", "-1"); status != subcommands.ExitUsageError {
		t.Errorf("history -n -1 = %v, want %v", status, subcommands.ExitUsageError)
	}
}

func TestPricesCmd(t *testing.T) {
	_, out := setup(t)
	if status := execute(t, &pricesCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("prices = %v, want %v", status, subcommands.ExitSuccess)
	}
	for _, want := range []string{"| IE00B4L5Y983 | SWDA.SW | 102.5 |", "| FX | USDCHF=X | 0.86 |"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("prices output does not contain %q:\n%s", want, out)
		}
	}
}

func TestWatcher_Refresh(t *testing.T) {
	mock, out := setup(t)
	a, err := open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	w := newWatcher(a, renderer.SummaryOptions{})
	w.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	w.refresh(context.Background())
	first := mock.GetTotalCallCount()
	if first == 0 {
		t.Fatalf("refresh made no request")
	}
	if !strings.Contains(out.String(), "_Refreshed at 2024-01-10 12:00:00._") {
		t.Errorf("refresh output:\n%s", out)
	}

	// Quotes are fetched again.
	w.refresh(context.Background())
	if got := mock.GetTotalCallCount(); got != 2*first {
		t.Errorf("two refreshes made %d requests, want %d", got, 2*first)
	}
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		err  error
		want subcommands.ExitStatus
	}{
		{nil, subcommands.ExitSuccess},
		{networth.ErrConfiguration, subcommands.ExitUsageError},
		{networth.ErrDataUnavailable, subcommands.ExitFailure},
	}
	for _, test := range tests {
		if got := exitStatus(test.err); got != test.want {
			t.Errorf("exitStatus(%v) = %v, want %v", test.err, got, test.want)
		}
	}
}

func TestTopicCmd(t *testing.T) {
	_, out := setup(t)
	if status := execute(t, &topicCmd{}, "gains"); status != subcommands.ExitSuccess {
		t.Fatalf("topic gains = %v, want %v", status, subcommands.ExitSuccess)
	}
	if !strings.HasPrefix(out.String(), "# Gains") {
		t.Errorf("topic gains output:\n%s", out)
	}
	if status := execute(t, &topicCmd{}, "unknown"); status != subcommands.ExitFailure {
		t.Errorf("topic unknown = %v, want %v", status, subcommands.ExitFailure)
	}
}
