package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Team")...),
			expected: "Name,Team",
		},
		{
			name:     "file without BOM",
			input:    []byte("Name,Team"),
			expected: "Name,Team",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewBOMSkippingReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ascii unchanged", "Name,Team,Position", "Name,Team,Position"},
		{"valid multibyte unchanged", "Renée,Zoë", "Renée,Zoë"},
		{"invalid byte replaced", "Jos\xe9,QB", "Jos?,QB"},
		{"truncated rune at end", "QB\xc3", "QB?"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewUTF8Sanitizer(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer_SplitAcrossReads(t *testing.T) {
	input := "Müller,Ærø,日本"
	got, err := io.ReadAll(NewUTF8Sanitizer(iotest.OneByteReader(strings.NewReader(input))))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestCountingReader(t *testing.T) {
	cr := NewCountingReader(strings.NewReader("PassingAttempts"))
	if _, err := io.Copy(io.Discard, cr); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if cr.BytesRead != int64(len("PassingAttempts")) {
		t.Errorf("BytesRead = %d, want %d", cr.BytesRead, len("PassingAttempts"))
	}
}

func TestWrapForLoading(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\xff")...)
	r := WrapForLoading(bytes.NewReader(input))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "a,b?" {
		t.Errorf("got %q, want %q", got, "a,b?")
	}
	if r.BytesRead != 4 {
		t.Errorf("BytesRead = %d, want 4", r.BytesRead)
	}
}
