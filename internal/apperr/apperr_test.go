package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Authorization("not yours"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("again"), http.StatusConflict},
		{Persistence(errors.New("disk"), "store failed"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, expected %d", c.err, got, c.want)
		}
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("while sending: %w", Conflict("duplicate"))

	if !IsKind(err, KindConflict) {
		t.Error("Wrapped conflict was not recognized")
	}
	if IsKind(err, KindValidation) {
		t.Error("Wrong kind matched")
	}
	if IsKind(errors.New("plain"), KindConflict) {
		t.Error("Untyped error matched a kind")
	}
}

func TestPersistenceUnwrapsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Persistence(cause, "could not store the message")

	if !errors.Is(err, cause) {
		t.Error("Cause was lost in wrapping")
	}
	if err.Error() != "could not store the message: database is locked" {
		t.Errorf("Unexpected error text: %q", err.Error())
	}
}
