package planning

import "testing"

func TestParseFieldPath(t *testing.T) {
	tests := []struct {
		in       string
		wantVar  string
		segments int
		wildcard bool
		wantErr  bool
	}{
		{in: "terminals", wantVar: "terminals", segments: 0},
		{in: "container.shipment_id", wantVar: "container", segments: 1},
		{in: "events[0].timestamp", wantVar: "events", segments: 2},
		{in: "terminals[*].facility_id", wantVar: "terminals", segments: 2, wildcard: true},
		{in: "a[3][*].b.c", wantVar: "a", segments: 4, wildcard: true},
		{in: "_private", wantVar: "_private", segments: 0},
		{in: "", wantErr: true},
		{in: "2025-07-20", wantErr: true},
		{in: "123abc", wantErr: true},
		{in: "a[", wantErr: true},
		{in: "a[x]", wantErr: true},
		{in: "a[-1]", wantErr: true},
		{in: "a..b", wantErr: true},
		{in: "a.", wantErr: true},
		{in: "a b", wantErr: true},
	}

	for _, tt := range tests {
		path, err := ParseFieldPath(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFieldPath(%q): expected error, got %+v", tt.in, path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFieldPath(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if path.Var != tt.wantVar {
			t.Errorf("ParseFieldPath(%q): var = %q, want %q", tt.in, path.Var, tt.wantVar)
		}
		if len(path.Segments) != tt.segments {
			t.Errorf("ParseFieldPath(%q): %d segments, want %d", tt.in, len(path.Segments), tt.segments)
		}
		if path.HasWildcard() != tt.wildcard {
			t.Errorf("ParseFieldPath(%q): wildcard = %v, want %v", tt.in, path.HasWildcard(), tt.wildcard)
		}
	}
}

func TestParseFieldPathSegmentDetail(t *testing.T) {
	path, err := ParseFieldPath("events[2].container.id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []PathSegment{
		{Kind: SegmentIndex, Index: 2},
		{Kind: SegmentField, Field: "container"},
		{Kind: SegmentField, Field: "id"},
	}
	if len(path.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(path.Segments), len(want))
	}
	for i, seg := range path.Segments {
		if seg != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, seg, want[i])
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, s := range []string{"terminals", "_x", "a1"} {
		if !isIdentifier(s) {
			t.Errorf("isIdentifier(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "1a", "a.b", "a[0]", "a-b"} {
		if isIdentifier(s) {
			t.Errorf("isIdentifier(%q) = true, want false", s)
		}
	}
}
