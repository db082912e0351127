package parser

import (
	"errors"
	"testing"
	"time"
)

var arrival = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func TestParse_SSHInvalidUser(t *testing.T) {
	line := "Jan  5 02:14:33 host sshd[123]: Invalid user admin from 10.0.0.5 port 51515"

	rec, err := Parse(TypeSSHInvalid, line, arrival)
	if err != nil {
		t.Fatalf("Expected parsed record, got error: %v", err)
	}

	if rec.Field("SRC") != "10.0.0.5" {
		t.Errorf("Expected SRC '10.0.0.5', got '%s'", rec.Field("SRC"))
	}
	if rec.Field("USERNAME") != "admin" {
		t.Errorf("Expected USERNAME 'admin', got '%s'", rec.Field("USERNAME"))
	}
	if rec.Field("DPT") != "51515" {
		t.Errorf("Expected DPT '51515', got '%s'", rec.Field("DPT"))
	}
	if rec.IP != "10.0.0.5" {
		t.Errorf("Expected IP '10.0.0.5', got '%s'", rec.IP)
	}
	if rec.Host != "host" {
		t.Errorf("Expected host 'host', got '%s'", rec.Host)
	}

	want := time.Date(arrival.Year(), time.January, 5, 2, 14, 33, 0, time.Local)
	if !rec.EventTime.Equal(want) {
		t.Errorf("Expected event time %v, got %v", want, rec.EventTime)
	}
	if !rec.Arrival.Equal(arrival) {
		t.Errorf("Expected arrival %v, got %v", arrival, rec.Arrival)
	}
}

// A line matching only the second ssh variant must parse under that
// variant's layout instead of failing.
func TestParse_SSHVariantFallback(t *testing.T) {
	line := "Feb 12 09:01:02 bastion sshd[999]: Connection closed by authenticating user root 1.2.3.4 port 51234 [preauth]"

	rec, err := Parse(TypeSSHInvalid, line, arrival)
	if err != nil {
		t.Fatalf("Expected fallback variant to parse, got error: %v", err)
	}

	if rec.Field("USERNAME") != "root" {
		t.Errorf("Expected USERNAME 'root', got '%s'", rec.Field("USERNAME"))
	}
	if rec.Field("SRC") != "1.2.3.4" {
		t.Errorf("Expected SRC '1.2.3.4', got '%s'", rec.Field("SRC"))
	}
	if rec.Field("DPT") != "51234" {
		t.Errorf("Expected DPT '51234', got '%s'", rec.Field("DPT"))
	}
}

func TestParse_UFWBlock(t *testing.T) {
	line := "Mar 14 11:59:59 gw kernel: [UFW BLOCK] IN=eth0 OUT= SRC=1.2.3.4 DPT=22 PROTO=TCP"

	rec, err := Parse(TypeUFWBlock, line, arrival)
	if err != nil {
		t.Fatalf("Expected parsed record, got error: %v", err)
	}

	for key, want := range map[string]string{
		"SRC":   "1.2.3.4",
		"DPT":   "22",
		"PROTO": "TCP",
		"IN":    "eth0",
	} {
		if got := rec.Field(key); got != want {
			t.Errorf("Expected %s '%s', got '%s'", key, want, got)
		}
	}

	// OUT= has an empty value: key present, value nil.
	if v, ok := rec.Fields["OUT"]; !ok {
		t.Error("Expected OUT key to be present")
	} else if v != nil {
		t.Errorf("Expected OUT to be nil, got '%s'", *v)
	}

	if rec.IP != "1.2.3.4" {
		t.Errorf("Expected IP '1.2.3.4', got '%s'", rec.IP)
	}
	if rec.Host != "gw" {
		t.Errorf("Expected host 'gw', got '%s'", rec.Host)
	}
}

func TestParse_UFWBlock_IgnoresBareTokens(t *testing.T) {
	line := "Mar 14 11:59:59 gw kernel: [UFW BLOCK] AUDIT SRC=9.9.9.9"

	rec, err := Parse(TypeUFWBlock, line, arrival)
	if err != nil {
		t.Fatalf("Expected parsed record, got error: %v", err)
	}
	if _, ok := rec.Fields["AUDIT"]; ok {
		t.Error("Tokens without '=' must be ignored")
	}
	if rec.IP != "9.9.9.9" {
		t.Errorf("Expected IP '9.9.9.9', got '%s'", rec.IP)
	}
}

func TestParse_MissingDelimiter(t *testing.T) {
	tests := []struct {
		name       string
		recordType RecordType
		line       string
	}{
		{"ufw without marker", TypeUFWBlock, "Mar 14 11:59:59 gw kernel: SRC=1.2.3.4"},
		{"ssh no variant", TypeSSHInvalid, "Mar 14 11:59:59 host sshd[1]: Accepted password for root"},
		{"ssh short metadata", TypeSSHInvalid, "sshd[1]: Invalid user a from 1.1.1.1 port 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.recordType, tt.line, arrival)
			if err == nil {
				t.Fatal("Expected error, got record")
			}
			if !errors.Is(err, ErrUnparsable) {
				t.Errorf("Expected ErrUnparsable, got %v", err)
			}
		})
	}
}

func TestTypeFromString(t *testing.T) {
	if _, err := TypeFromString("ufw_block"); err != nil {
		t.Errorf("Expected ufw_block to be known: %v", err)
	}
	if _, err := TypeFromString("ufw_reject"); err == nil {
		t.Error("Expected unknown type to be rejected")
	}
}

func TestParse_UnknownType(t *testing.T) {
	if _, err := Parse(RecordType("nope"), "content", arrival); err == nil {
		t.Error("Expected error for unknown record type")
	}
}
