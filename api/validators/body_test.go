package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

type sampleBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := pkgerrors.As(err).Fields()
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected name field error, got %v", fields)
	}
	if _, ok := fields["email"]; !ok {
		t.Fatalf("expected email field error, got %v", fields)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","admin":true}`))
	var body sampleBody
	if err := DecodeJSON(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeOptionalJSONAcceptsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var body sampleBody
	if err := DecodeOptionalJSON(req, &body); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	if err := DecodeJSON(req, &body); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&bad=x&big=500", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 100); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 1, 1, 100); err != nil || v != 1 {
		t.Fatalf("expected default, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 1, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
	_, err := ParseQueryInt(req, "big", 1, 1, 100)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
	if fields := pkgerrors.As(err).Fields(); len(fields["big"]) != 1 {
		t.Fatalf("expected field error for big, got %v", fields)
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?in_stock=true&off=0&bad=maybe", nil)
	if v, err := ParseQueryBool(req, "in_stock"); err != nil || v == nil || !*v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(req, "off"); err != nil || v == nil || *v {
		t.Fatalf("expected false, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(req, "missing"); err != nil || v != nil {
		t.Fatalf("expected nil, got %v %v", v, err)
	}
	if _, err := ParseQueryBool(req, "bad"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  ring\x00 size\n ", 0); got != "ring size" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("héllo wörld", 5); got != "héllo" {
		t.Fatalf("expected rune truncation, got %q", got)
	}
}
