package symbol

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in     string
		market string
		short  string
	}{
		{"XNAS:AAPL", "XNAS", "AAPL"},
		{"XETR:ADS", "XETR", "ADS"},
		{"AAPL", "", "AAPL"},
		{"US0378331005", "", "US0378331005"},
		{"  XNAS:AAPL  ", "XNAS", "AAPL"},
		{":AAPL", "", "AAPL"},
		{"", "", ""},
	}
	for _, tc := range cases {
		got := Parse(tc.in)
		if got.MarketCode != tc.market || got.ShortSymbol != tc.short {
			t.Fatalf("Parse(%q) = %+v, want {%s %s}", tc.in, got, tc.market, tc.short)
		}
	}
}

func TestIsValidISIN(t *testing.T) {
	valid := []string{
		"US0378331005", // Apple
		"US5949181045", // Microsoft
	}
	for _, s := range valid {
		if !IsValidISIN(s) {
			t.Fatalf("expected %q to be a valid ISIN", s)
		}
	}

	invalid := []string{
		"",
		"AAPL",
		"US0378331006",  // wrong check digit
		"us0378331005",  // lowercase prefix
		"US037833100",   // too short
		"US03783310050", // too long
		"0S0378331005",  // numeric country prefix
		"US037833100X",  // non-numeric check digit
	}
	for _, s := range invalid {
		if IsValidISIN(s) {
			t.Fatalf("expected %q to be an invalid ISIN", s)
		}
	}
}
