package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestWrappedAppErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("save: %w", Persistence(fmt.Errorf("disk full")))
	if !Is(err, ErrPersistence) {
		t.Fatalf("expected wrapped error to match ErrPersistence")
	}
	if Is(err, ErrAuthorizationDenied) {
		t.Fatalf("unexpected match with ErrAuthorizationDenied")
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrTemplateMissing.WithDetail("template t1")
	if ErrTemplateMissing.Detail != "" {
		t.Fatalf("sentinel mutated: %q", ErrTemplateMissing.Detail)
	}
	if e.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", e.HTTPStatus)
	}
}

func TestAsAppErrorProvider(t *testing.T) {
	pe := &ProviderError{StatusCode: 429, Body: "rate limited"}
	appErr := AsAppError(fmt.Errorf("generate: %w", pe))
	if appErr.Code != CodeProviderError || appErr.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("unexpected app error: %+v", appErr)
	}
	got, ok := AsProviderError(appErr)
	if !ok || got.StatusCode != 429 {
		t.Fatalf("provider error not reachable through app error")
	}
}
