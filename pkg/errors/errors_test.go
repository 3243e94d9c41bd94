package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeCreationFailed, status: http.StatusUnprocessableEntity, publicMsg: "creation failed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeUpstream, status: http.StatusBadGateway, publicMsg: "upstream unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestHasCodeFollowsChain(t *testing.T) {
	inner := New(CodeNotFound, "pet missing")
	outer := fmt.Errorf("mirror pet: %w", inner)
	if !HasCode(outer, CodeNotFound) {
		t.Fatalf("expected wrapped not found to be detected")
	}
	if HasCode(outer, CodeUpstream) {
		t.Fatalf("unexpected upstream code match")
	}
	if HasCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("socket closed"), "lookup user")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}

func TestDumpRecordsUpstreamDetails(t *testing.T) {
	err := Wrap(CodeUpstream, stdErrors.New("petfinder status 401"), "upstream request failed").
		WithDetails(map[string]any{"status": 401, "title": "Unauthorized"})
	dump := Dump(err)
	if !dump.Retryable {
		t.Fatalf("upstream failures are retryable")
	}
	if dump.UpstreamStatus != 401 || dump.UpstreamTitle != "Unauthorized" {
		t.Fatalf("unexpected upstream fields: %+v", dump)
	}
	fields := dump.Fields()
	if fields["upstream_status"] != 401 {
		t.Fatalf("expected upstream_status field, got %v", fields)
	}
	if _, ok := fields["db_code"]; ok {
		t.Fatalf("db fields should be absent: %v", fields)
	}
}

func TestDumpParsesSQLiteConstraint(t *testing.T) {
	cause := stdErrors.New("UNIQUE constraint failed: users.email")
	err := Wrap(CodeInternal, fmt.Errorf("insert user: %w", cause), "create user")
	dump := Dump(err)
	if dump.DB == nil {
		t.Fatalf("expected db failure, got %+v", dump)
	}
	if dump.DB.Code != "unique" || dump.DB.Table != "users" || dump.DB.Column != "email" {
		t.Fatalf("unexpected db failure: %+v", dump.DB)
	}
}
