package span_test

import (
	"testing"

	"github.com/walteh/armls/pkg/span"
)

func TestContainment(t *testing.T) {
	s := span.New(5, 4) // [5,9)

	tests := []struct {
		name          string
		offset        int
		wantStrict    bool
		wantInclusive bool
		wantExtended  bool
	}{
		{"before start", 4, false, false, false},
		{"at start", 5, true, true, true},
		{"inside", 7, true, true, true},
		{"last contained offset", 8, true, true, true},
		{"at end", 9, false, true, true},
		{"past end", 10, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ContainsStrict(tt.offset); got != tt.wantStrict {
				t.Errorf("ContainsStrict(%d) = %v, want %v", tt.offset, got, tt.wantStrict)
			}
			if got := s.ContainsInclusive(tt.offset); got != tt.wantInclusive {
				t.Errorf("ContainsInclusive(%d) = %v, want %v", tt.offset, got, tt.wantInclusive)
			}
			if got := s.ContainsExtended(tt.offset); got != tt.wantExtended {
				t.Errorf("ContainsExtended(%d) = %v, want %v", tt.offset, got, tt.wantExtended)
			}
		})
	}
}

func TestOffsetFromLineAndColumn(t *testing.T) {
	source := "Hello\nWorld\nTest"

	tests := []struct {
		name string
		line int
		col  int
		want int
	}{
		{"start of document", 0, 0, 0},
		{"middle of first line", 0, 3, 3},
		{"start of second line", 1, 0, 6},
		{"middle of second line", 1, 2, 8},
		{"third line", 2, 4, 16},
		{"column past line end clamps to line end", 0, 99, 5},
		{"line past document clamps to document end", 99, 0, len(source)},
		{"negative coordinates clamp to zero", -3, -7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := span.OffsetFromLineAndColumn(source, tt.line, tt.col); got != tt.want {
				t.Errorf("OffsetFromLineAndColumn(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
			}
		})
	}
}

func TestLineAndColumnFromOffset(t *testing.T) {
	source := "Hello\nWorld\nTest"

	tests := []struct {
		name     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{"document start", 0, 0, 0},
		{"first line", 3, 0, 3},
		{"second line start", 6, 1, 0},
		{"second line middle", 8, 1, 2},
		{"negative offset clamps", -5, 0, 0},
		{"offset past end clamps", 999, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLine, gotCol := span.LineAndColumnFromOffset(source, tt.offset)
			if gotLine != tt.wantLine || gotCol != tt.wantCol {
				t.Errorf("LineAndColumnFromOffset(%d) = (%d, %d), want (%d, %d)", tt.offset, gotLine, gotCol, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	source := "{\n  \"parameters\": {\n    \"name\": { \"value\": 1 }\n  }\n}"
	for offset := 0; offset <= len(source); offset++ {
		line, col := span.LineAndColumnFromOffset(source, offset)
		if got := span.OffsetFromLineAndColumn(source, line, col); got != offset {
			t.Errorf("round trip of offset %d via (%d, %d) = %d", offset, line, col, got)
		}
	}
}

func TestUnquote(t *testing.T) {
	source := `{ "storageName": 1 }`

	quoted := span.New(2, 13) // "storageName"
	if got := quoted.Text(source); got != `"storageName"` {
		t.Fatalf("test span is wrong: %q", got)
	}

	unquoted := quoted.Unquote(source)
	if got := unquoted.Text(source); got != "storageName" {
		t.Errorf("Unquote().Text() = %q, want %q", got, "storageName")
	}

	// a span without quotes is unchanged
	bare := span.New(3, 11)
	if got := bare.Unquote(source); got != bare {
		t.Errorf("Unquote() of unquoted span = %v, want %v", got, bare)
	}
}
