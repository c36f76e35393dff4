package gemini

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", raw: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", raw: "  {\"a\": 1}\n", want: `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.raw); got != tt.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{name: "float", in: float64(3), want: 3, ok: true},
		{name: "string", in: " 7 ", want: 7, ok: true},
		{name: "fractional", in: 2.5, ok: false},
		{name: "nonsense", in: "many", ok: false},
		{name: "nil", in: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceInt(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("coerceInt(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCoerceStringSlice(t *testing.T) {
	got := coerceStringSlice([]any{"a", " b ", "", 3})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "3" {
		t.Fatalf("unexpected slice: %v", got)
	}

	if coerceStringSlice("not a slice") != nil {
		t.Fatal("expected nil for a non-slice input")
	}
}
