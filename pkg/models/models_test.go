package models

import "testing"

func TestQuoteHasPrice(t *testing.T) {
	if (&Quote{}).HasPrice() {
		t.Error("zero quote should not have a price")
	}
	if !(&Quote{Price: 12.15}).HasPrice() {
		t.Error("priced quote should report HasPrice")
	}
}

func TestPEDisplay(t *testing.T) {
	tests := []struct {
		pe   float64
		want string
	}{
		{8.5, "8.50"},
		{0, "N/A"},
		{-3.2, "N/A"},
	}
	for _, tt := range tests {
		q := &Quote{PE: tt.pe}
		if got := q.PEDisplay(); got != tt.want {
			t.Errorf("PEDisplay(%v) = %q, want %q", tt.pe, got, tt.want)
		}
	}
}

func TestCorpusEmpty(t *testing.T) {
	var c *Corpus
	if !c.Empty() {
		t.Error("nil corpus should be empty")
	}
	if !(&Corpus{}).Empty() {
		t.Error("zero corpus should be empty")
	}
	if (&Corpus{ArticleCount: 1}).Empty() {
		t.Error("corpus with articles should not be empty")
	}
}
