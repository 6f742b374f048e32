package ontology

import "testing"

func TestRelationKey_String(t *testing.T) {
	key := RelationKey{From: "Facility", Name: "hosts_event", To: "ContainerEvent"}
	want := "Facility.hosts_event->ContainerEvent"
	if got := key.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseRelationKey_RoundTrip(t *testing.T) {
	key := RelationKey{From: "Facility", Name: "hosts_event", To: "ContainerEvent"}

	parsed, err := ParseRelationKey(key.String())
	if err != nil {
		t.Fatalf("ParseRelationKey() error = %v", err)
	}
	if parsed != key {
		t.Errorf("round trip = %+v, want %+v", parsed, key)
	}
}

func TestParseRelationKey_Invalid(t *testing.T) {
	cases := []string{
		"",
		"City",
		"City.has_facility",
		"City->Facility",
		".has_facility->Facility",
		"City.->Facility",
	}
	for _, in := range cases {
		if _, err := ParseRelationKey(in); err == nil {
			t.Errorf("ParseRelationKey(%q) expected error", in)
		}
	}
}

func TestRelationKey_DirectionMatters(t *testing.T) {
	forward := RelationKey{From: "A", Name: "r", To: "B"}
	reverse := RelationKey{From: "B", Name: "r", To: "A"}
	if forward == reverse {
		t.Error("(A,r,B) and (B,r,A) must be distinct keys")
	}

	index := map[RelationKey]string{forward: "yes"}
	if _, ok := index[reverse]; ok {
		t.Error("reverse key must not hit the forward entry")
	}
}
