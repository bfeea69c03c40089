// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/blinklabs-io/gavel/governance"
)

const (
	apiVersion = "0.1.0"

	// ActorHeader carries the caller identity on mutating requests. The
	// deployment's identity provider is trusted to set it truthfully.
	ActorHeader = "X-Gavel-Actor"

	maxRequestBody = 1 << 20 // 1 MB
)

// writeJSON writes a JSON response with the given status code.
func (a *Api) writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	a.countResponse(status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeStatus writes a bodyless response with the given status code.
func (a *Api) writeStatus(w http.ResponseWriter, status int) {
	a.countResponse(status)
	w.WriteHeader(status)
}

// writeError writes a standard-format error response.
func (a *Api) writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	a.writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeGovernanceError maps a governance engine error onto an HTTP error
// response. Unrecognized errors are reported generically and logged.
func (a *Api) writeGovernanceError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		a.config.Logger.Error(
			"internal error serving request",
			"error", err,
		)
		a.writeError(w, status, "internal error")
		return
	}
	a.writeError(w, status, err.Error())
}

// errorStatus returns the HTTP status for a governance engine error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, governance.ErrInvalidTarget),
		errors.Is(err, governance.ErrArithmeticOverflow):
		return http.StatusBadRequest
	case errors.Is(err, governance.ErrUnauthorized),
		errors.Is(err, governance.ErrNoVotingPower):
		return http.StatusForbidden
	case errors.Is(err, governance.ErrNotFound),
		errors.Is(err, governance.ErrNoDelegation):
		return http.StatusNotFound
	case errors.Is(err, governance.ErrPaused),
		errors.Is(err, governance.ErrInvalidState),
		errors.Is(err, governance.ErrAlreadyVoted),
		errors.Is(err, governance.ErrAlreadyDelegated),
		errors.Is(err, governance.ErrQuorumNotMet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest decodes a JSON request body into dst.
func decodeRequest(
	w http.ResponseWriter,
	r *http.Request,
	dst any,
) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer body.Close()
	decoder := json.NewDecoder(body)
	return decoder.Decode(dst)
}

// actor extracts the caller identity from the request, writing a 400
// response and returning false when the header is missing.
func (a *Api) actor(
	w http.ResponseWriter,
	r *http.Request,
) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get(ActorHeader))
	if caller == "" {
		a.writeError(
			w,
			http.StatusBadRequest,
			"missing "+ActorHeader+" header",
		)
		return "", false
	}
	return caller, true
}

// proposalId extracts the {id} path value, writing a 400 response and
// returning false when it is not a valid proposal id.
func (a *Api) proposalId(
	w http.ResponseWriter,
	r *http.Request,
) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		a.writeError(
			w,
			http.StatusBadRequest,
			"invalid proposal id",
		)
		return 0, false
	}
	return id, true
}

// handleRoot handles GET / and returns service metadata.
func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	a.writeJSON(w, http.StatusOK, RootResponse{
		Name:    "gavel",
		Version: apiVersion,
	})
}

// handleHealth handles GET /health. The service is healthy when the
// governance config is readable from the metadata store.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	if _, err := a.governance.Config(); err != nil {
		a.config.Logger.Error(
			"health check failed",
			"error", err,
		)
		a.writeJSON(
			w,
			http.StatusServiceUnavailable,
			HealthResponse{IsHealthy: false},
		)
		return
	}
	a.writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}
