package domain

import "testing"

func TestParseBreakpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Breakpoint
		ok   bool
	}{
		{"narrow", BreakpointNarrow, true},
		{"Mobile", BreakpointNarrow, true},
		{"medium", BreakpointMedium, true},
		{" tablet ", BreakpointMedium, true},
		{"WIDE", BreakpointWide, true},
		{"desktop", BreakpointWide, true},
		{"huge", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseBreakpoint(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseBreakpoint(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBreakpoint_Rank(t *testing.T) {
	t.Parallel()

	if !(BreakpointNarrow.Rank() < BreakpointMedium.Rank() && BreakpointMedium.Rank() < BreakpointWide.Rank()) {
		t.Fatal("expected narrow < medium < wide")
	}
	if Breakpoint("x").Rank() != -1 {
		t.Error("unknown breakpoint should rank -1")
	}
	if Breakpoint("x").IsValid() {
		t.Error("unknown breakpoint should be invalid")
	}
}

func TestCharType_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []CharType{CharTypeWord, CharTypeEnd, CharTypePause, CharTypeSajdah,
		CharTypeRubElHizb, CharTypeSurahName, CharTypeBasmala} {
		if !c.IsValid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if CharType("glyph").IsValid() {
		t.Error("unknown char type should be invalid")
	}
	if CharTypeSurahName.IsVerseText() || CharTypeBasmala.IsVerseText() {
		t.Error("headers are not verse text")
	}
	if !CharTypeEnd.IsVerseText() {
		t.Error("end-of-ayah marker is verse text")
	}
}

func TestTypographyProfile_FitsLines(t *testing.T) {
	t.Parallel()

	p := TypographyProfile{CanvasHeight: 600, LineHeight: 40}
	if !p.FitsLines(15) {
		t.Error("15 x 40 fits in 600")
	}
	p.LineHeight = 41
	if p.FitsLines(15) {
		t.Error("15 x 41 does not fit in 600")
	}
}
