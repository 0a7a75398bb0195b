package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tokenizer := NewTokenizer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple words",
			text: "Fitness and nutrition tips",
			want: []string{"fitness", "and", "nutrition", "tips"},
		},
		{
			name: "handle with at sign",
			text: "@janedoe posts about AI",
			want: []string{"janedoe", "posts", "about", "ai"},
		},
		{
			name: "punctuation and emoji stripped",
			text: "5 hacks: work & content creation!",
			want: []string{"5", "hacks", "work", "content", "creation"},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "   \t\n ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizer.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	tokenizer := NewTokenizer()
	text := "Explaining RAG systems with memes"

	first := tokenizer.Tokenize(text)
	second := tokenizer.Tokenize(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("tokenization not deterministic: %v vs %v", first, second)
	}
}
