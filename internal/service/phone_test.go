package service

import (
	"reflect"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name        string
		raw         string
		countryCode string
		want        string
	}{
		{"empty", "", "52", ""},
		{"no digits", "hola", "52", ""},
		{"local ten digits", "5512345678", "52", "525512345678"},
		{"formatted local", "(55) 1234-5678", "52", "525512345678"},
		{"already normalized", "525512345678", "52", "525512345678"},
		{"legacy mobile marker", "5215512345678", "52", "525512345678"},
		{"plus prefix", "+52 1 55 1234 5678", "52", "525512345678"},
		{"whatsapp jid digits", "525512345678", "52", "525512345678"},
		{"short number kept as is", "12345", "52", "12345"},
		{"default country code", "5512345678", "", "525512345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePhone(tc.raw, tc.countryCode)
			if got != tc.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestPhoneCandidates(t *testing.T) {
	got := PhoneCandidates("+52 1 55 1234 5678", "52")
	want := []string{"525512345678"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected candidates: %v", got)
	}

	got = PhoneCandidates("15551234567", "52")
	if len(got) != 2 {
		t.Fatalf("expected normalized plus local-suffix candidate, got %v", got)
	}
	if got[0] != "15551234567" || got[1] != "525551234567" {
		t.Fatalf("unexpected candidates: %v", got)
	}

	if got := PhoneCandidates("sin numero", "52"); got != nil {
		t.Fatalf("expected nil candidates, got %v", got)
	}
}
