package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yrgohrm/databaser/internal/types"
)

func TestRenderSpendTable(t *testing.T) {
	customers := []types.CustomerSpend{
		{CustomerID: 2, Name: "Big Spender", Total: 85},
		{CustomerID: 1, Name: "Small Spender", Total: 20.5},
	}

	var buf bytes.Buffer
	if err := renderSpendTable(&buf, customers); err != nil {
		t.Fatalf("failed to render spend table: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Rank", "Big Spender", "85.00", "Small Spender", "20.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "Big Spender") > strings.Index(out, "Small Spender") {
		t.Error("expected the biggest spender to be listed first")
	}
}

func TestRenderSpendTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := renderSpendTable(&buf, nil); err != nil {
		t.Fatalf("failed to render empty spend table: %v", err)
	}
}

func TestRenderCountTable(t *testing.T) {
	counts := map[string]int{
		"Customer":      1000,
		"Product":       1000,
		"CustomerOrder": 1000,
		"OrderLine":     2987,
	}

	var buf bytes.Buffer
	if err := renderCountTable(&buf, counts); err != nil {
		t.Fatalf("failed to render count table: %v", err)
	}

	out := buf.String()
	for _, table := range types.Tables {
		if !strings.Contains(out, table) {
			t.Errorf("expected output to list %s, got:\n%s", table, out)
		}
	}
	if !strings.Contains(out, "2987") {
		t.Errorf("expected output to contain the OrderLine count, got:\n%s", out)
	}
}
