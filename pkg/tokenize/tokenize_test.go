package tokenize

import (
	"testing"

	"github.com/ikawaha/kagome/v2/tokenizer"
)

func TestIsGarbage(t *testing.T) {
	tests := []struct {
		base string
		want bool
	}{
		{"123", true},
		{"...", true},
		{"abc", true},
		{"は", true},
		{"ね", true},
		{"", true},
		{"決闘", false},
		{"テスト", false},
		{"ちょっと", false},
		{"人々", false},
		{"ラーメン", false},
		{"目", false},
		{"ッ", false},
	}
	for _, tt := range tests {
		if got := IsGarbage(tt.base); got != tt.want {
			t.Errorf("IsGarbage(%q) = %v; want %v", tt.base, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, out string }{
		{"ﾃｽﾄ", "テスト"},
		{"ＡＢＣ", "ABC"},
		{"決闘", "決闘"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.out {
			t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("search"); err != nil || m != tokenizer.Search {
		t.Fatalf("ParseMode(search) = %v, %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != tokenizer.Normal {
		t.Fatalf("ParseMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseMode("wakati"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestAnalyzeBaseForms(t *testing.T) {
	analyzer, err := NewAnalyzer(tokenizer.Normal)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	tokens := analyzer.Analyze("昨日、学校へ行った。")
	if len(tokens) == 0 {
		t.Fatal("No tokens found")
	}

	found := false
	for _, tok := range tokens {
		if tok.Surface == "行っ" {
			found = true
			if tok.BaseForm != "行く" {
				t.Errorf("BaseForm of 行っ = %q; want 行く", tok.BaseForm)
			}
			if tok.Reading == "" {
				t.Error("expected a katakana reading for 行っ")
			}
			if tok.PrimaryPOS != "動詞" {
				t.Errorf("PrimaryPOS = %q; want 動詞", tok.PrimaryPOS)
			}
		}
	}
	if !found {
		t.Error("Expected to find token 行っ")
	}
}

func TestVocabularyDropsGarbage(t *testing.T) {
	analyzer, err := NewAnalyzer(tokenizer.Normal)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	for _, tok := range analyzer.Vocabulary("俺は123回も決闘した！") {
		if IsGarbage(tok.BaseForm) {
			t.Errorf("garbage token %q survived", tok.BaseForm)
		}
		if tok.BaseForm == "は" || tok.BaseForm == "123" || tok.BaseForm == "！" {
			t.Errorf("unexpected token %q", tok.BaseForm)
		}
	}
}

func TestPartOfSpeechAndProperNoun(t *testing.T) {
	tok := Token{PartsOfSpeech: []string{"名詞", "固有名詞", "人名", "名", "*", "*", "サトシ", "サトシ", "サトシ"}}
	if got := tok.PartOfSpeech(); got != "名詞,固有名詞,人名,名" {
		t.Errorf("PartOfSpeech() = %q", got)
	}
	if !tok.IsProperNoun() {
		t.Error("expected proper noun")
	}

	plain := Token{PartsOfSpeech: []string{"名詞", "一般", "*", "*"}}
	if plain.IsProperNoun() {
		t.Error("did not expect proper noun")
	}
	if got := plain.PartOfSpeech(); got != "名詞,一般" {
		t.Errorf("PartOfSpeech() = %q", got)
	}
}
