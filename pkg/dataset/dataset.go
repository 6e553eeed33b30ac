// Package dataset decodes the JSON payloads the server embeds in data-*
// attributes. Decoding never fails outward: a missing or malformed payload
// yields an empty slice and a reported data-format error.
package dataset

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/errors"
)

const maxLoggedValue = 120

// Decode reads attribute attr from n and unmarshals it as a JSON array of T.
// hook attributes the error report.
func Decode[T any](n *html.Node, attr, hook string) []T {
	raw, ok := dom.Attr(n, attr)
	if !ok || strings.TrimSpace(raw) == "" {
		report(hook, &errors.ParseError{Attribute: attr, DataType: typeName[T]()})
		return []T{}
	}
	out, err := Parse[T](raw)
	if err != nil {
		report(hook, &errors.ParseError{
			Attribute: attr,
			DataType:  typeName[T](),
			Got:       truncate(raw, maxLoggedValue),
			Err:       err,
		})
		return []T{}
	}
	return out
}

func report(hook string, err *errors.ParseError) {
	errors.Report(&errors.HookError{
		Op:   "dataset.Decode",
		Kind: errors.KindDataFormat,
		Hook: hook,
		Err:  err,
	})
}

func typeName[T any]() string {
	return fmt.Sprintf("[]%T", *new(T))
}

// Parse unmarshals raw as a JSON array of T. A JSON null decodes to an
// empty slice.
func Parse[T any](raw string) ([]T, error) {
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
