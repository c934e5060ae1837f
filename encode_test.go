package cashbook

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PaesslerAG/jsonpath"
)

// decodeLine parses one JSONL line into a generic value for jsonpath queries.
func decodeLine(t *testing.T, line string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		t.Fatalf("invalid JSON line %q: %v", line, err)
	}
	return v
}

func TestEncodeTransaction_Fields(t *testing.T) {
	inv := stepped(t)
	inv.LastClaimed = month("2024-01")
	inv.AccountID = "acc-1"
	income := NewIncome(day("2024-02-15"), "Monthly income", USD(60), "Investment: CD")
	income.ID = "inc-1"
	income.Investment = "stepped"
	expense := NewExpense(day("2024-02-16"), "Rent", USD(900.5), "Housing")
	expense.ID = "exp-1"

	testCases := []struct {
		name string
		tx   Transaction
		want map[string]any // jsonpath -> value
	}{
		{"investment", inv, map[string]any{
			"$.kind":                    "investment",
			"$.id":                      "stepped",
			"$.date":                    "2023-01-01",
			"$.amount":                  float64(10000),
			"$.currency":                "USD",
			"$.account":                 "acc-1",
			"$.certificate":             "Stepped CD",
			"$.initialRate":             float64(5),
			"$.termYears":               float64(5),
			"$.stepDowns[0].yearTrigger": float64(2),
			"$.stepDowns[1].newRate":    float64(3),
			"$.lastClaimed":             "2024-01",
		}},
		{"income", income, map[string]any{
			"$.kind":       "income",
			"$.id":         "inc-1",
			"$.amount":     float64(60),
			"$.source":     "Investment: CD",
			"$.investment": "stepped",
		}},
		{"expense", expense, map[string]any{
			"$.kind":     "expense",
			"$.amount":   900.5,
			"$.category": "Housing",
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeTransaction(&buf, tc.tx); err != nil {
				t.Fatalf("EncodeTransaction() failed: %v", err)
			}
			line := buf.String()
			if strings.Count(line, "\n") != 1 || !strings.HasSuffix(line, "\n") {
				t.Errorf("EncodeTransaction() wrote %q, want a single line", line)
			}
			v := decodeLine(t, line)
			for path, want := range tc.want {
				got, err := jsonpath.Get(path, v)
				if err != nil {
					t.Errorf("%s: %v", path, err)
					continue
				}
				if got != want {
					t.Errorf("%s = %v (%T), want %v (%T)", path, got, got, want, want)
				}
			}
		})
	}
}

func TestEncodeTransaction_OmitsEmpty(t *testing.T) {
	inv := yearly(t)
	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, inv); err != nil {
		t.Fatal(err)
	}
	v := decodeLine(t, buf.String())
	for _, path := range []string{"$.account", "$.stepDowns", "$.lastClaimed"} {
		if _, err := jsonpath.Get(path, v); err == nil {
			t.Errorf("%s is present in %s", path, buf.String())
		}
	}
	if !strings.HasPrefix(buf.String(), `{"kind":"investment","id":"yearly","date":"2024-01-15"`) {
		t.Errorf("unexpected field order: %s", buf.String())
	}
}

func TestLedger_RoundTrip(t *testing.T) {
	ctx := t.Context()
	l := NewLedger("USD")
	acc, _ := NewAccount("Savings")
	if err := l.OpenAccount(acc); err != nil {
		t.Fatal(err)
	}
	inv := stepped(t)
	inv.AccountID = acc.ID
	inv.LastClaimed = month("2023-12")
	for _, tx := range []Transaction{
		inv,
		NewIncome(day("2024-01-10"), "Salary", USD(2500), "Employer"),
		NewExpense(day("2024-01-11"), "Rent", USD(900), "Housing"),
	} {
		if _, err := l.Add(tx); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger() failed: %v", err)
	}
	first, _, _ := strings.Cut(buf.String(), "\n")
	if got, _ := jsonpath.Get("$.kind", decodeLine(t, first)); got != "account" {
		t.Errorf("first line kind = %v, want account", got)
	}

	decoded, err := DecodeLedger(&buf, "")
	if err != nil {
		t.Fatalf("DecodeLedger() failed: %v", err)
	}
	if decoded.Currency() != "USD" {
		t.Errorf("decoded currency = %q, want USD", decoded.Currency())
	}
	if got := decoded.AccountList(); len(got) != 1 || got[0] != acc {
		t.Errorf("decoded accounts = %v, want [%v]", got, acc)
	}
	want, _ := l.All(ctx)
	got, _ := decoded.All(ctx)
	if len(got) != len(want) {
		t.Fatalf("decoded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		wj, _ := json.Marshal(want[i])
		gj, _ := json.Marshal(got[i])
		if !bytes.Equal(wj, gj) {
			t.Errorf("record %d:\n got %s\nwant %s", i, gj, wj)
		}
	}
	dinv, err := decoded.Investment(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dinv.LastClaimed != month("2023-12") || len(dinv.StepDowns) != 2 {
		t.Errorf("decoded investment = %+v", dinv)
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", "{", "line 1"},
		{"unknown kind", `{"kind":"transfer"}`, "unknown record kind"},
		{"invalid record", "\n" + `{"kind":"income","id":"a","date":"2024-01-01","description":"","amount":1,"currency":"USD"}`, "line 2"},
		{"bad date", `{"kind":"expense","date":"yesterday"}`, "line 1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tc.input), "USD")
			if err == nil {
				t.Fatal("DecodeLedger() succeeded")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
