package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/ghuser/stockkeeper/pkg/errhttp"
	"github.com/ghuser/stockkeeper/services/inventory/domain"
)

// Exit codes.
const (
	exitRejected = 1 // the engine refused the operation
	exitUsage    = 2 // bad flags, config or connectivity
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeError prints err in the same shape the HTTP API uses.
func writeError(w io.Writer, err error) {
	body := errhttp.ErrorResponse{Error: err.Error(), Kind: domain.Kind(err)}
	var ue *usageError
	if errors.As(err, &ue) {
		body.Kind = "usage"
	}
	if id, ok := domain.ResourceID(err); ok {
		body.ResourceID = &id
	}
	_ = writeJSON(w, body)
}

func exitCode(err error) int {
	if domain.IsKind(err) {
		return exitRejected
	}
	return exitUsage
}
