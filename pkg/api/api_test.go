package api

import (
	"errors"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
)

func TestCodecOmitsZeroTimes(t *testing.T) {
	var c Codec
	if c.Name() != "json" {
		t.Fatalf("expected codec name json, got %q", c.Name())
	}

	data, err := c.Marshal(&PayIn{ID: "p1", Amount: "1500.00", ClaimedAt: time.Date(2025, 3, 10, 10, 0, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"claimed_at":"2025-03-10T10:00:05Z"`) {
		t.Errorf("expected RFC 3339 claimed_at, got %s", s)
	}
	if strings.Contains(s, "reversed_at") || strings.Contains(s, "bound_at") {
		t.Errorf("expected zero times to be omitted, got %s", s)
	}

	var back PayIn
	if err := c.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Amount != "1500.00" || !back.ClaimedAt.Equal(time.Date(2025, 3, 10, 10, 0, 5, 0, time.UTC)) {
		t.Errorf("unexpected decode: %+v", back)
	}
}

func TestCodecEmptyBody(t *testing.T) {
	var req VerifyAuditRequest
	if err := (Codec{}).Unmarshal(nil, &req); err != nil {
		t.Fatalf("expected empty body to decode, got %v", err)
	}
	if err := (Codec{}).Unmarshal([]byte("{"), &req); err == nil {
		t.Fatal("expected malformed JSON to fail")
	}
}

func TestErrorDetail(t *testing.T) {
	detail, err := NewErrorDetail(ErrorInfo{
		Code:    "AMBIGUOUS",
		Message: "payment exceeds outstanding balance",
		Fields:  map[string]string{"excess": "500.00"},
	})
	if err != nil {
		t.Fatalf("NewErrorDetail failed: %v", err)
	}
	cerr := connect.NewError(connect.CodeFailedPrecondition, errors.New("payment exceeds outstanding balance"))
	cerr.AddDetail(detail)

	info, ok := ErrorInfoOf(cerr)
	if !ok {
		t.Fatal("expected error info")
	}
	if info.Code != "AMBIGUOUS" || info.Fields["excess"] != "500.00" {
		t.Errorf("unexpected info: %+v", info)
	}
	if ErrorCode(cerr) != "AMBIGUOUS" {
		t.Errorf("expected ErrorCode AMBIGUOUS, got %q", ErrorCode(cerr))
	}
	if ErrorCode(errors.New("plain")) != "" {
		t.Error("expected no code on a plain error")
	}
}
