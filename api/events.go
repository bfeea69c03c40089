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
	"net/http"
	"strconv"
)

// handleListEvents handles GET /api/v1/events?from=N&count=M, serving
// journaled governance events to observers. Omitting from starts at the
// beginning of the journal.
func (a *Api) handleListEvents(
	w http.ResponseWriter,
	r *http.Request,
) {
	if a.journal == nil {
		a.writeError(
			w,
			http.StatusServiceUnavailable,
			"event journal not enabled",
		)
		return
	}
	var from uint64
	count := defaultPageCount
	query := r.URL.Query()
	if fromParam := query.Get("from"); fromParam != "" {
		parsed, err := strconv.ParseUint(fromParam, 10, 64)
		if err != nil {
			a.writeError(
				w,
				http.StatusBadRequest,
				"invalid from parameter",
			)
			return
		}
		from = parsed
	}
	if countParam := query.Get("count"); countParam != "" {
		parsed, err := strconv.Atoi(countParam)
		if err != nil {
			a.writeError(
				w,
				http.StatusBadRequest,
				"invalid count parameter",
			)
			return
		}
		count = parsed
	}
	// Bounds clamping
	if count < 1 {
		count = 1
	}
	if count > maxPageCount {
		count = maxPageCount
	}

	records, err := a.journal.Records(from, count)
	if err != nil {
		a.config.Logger.Error(
			"failed to read journal records",
			"error", err,
		)
		a.writeError(
			w,
			http.StatusInternalServerError,
			"internal error",
		)
		return
	}
	resp := []EventResponse{}
	for _, record := range records {
		payload, err := record.DecodePayload()
		if err != nil {
			a.config.Logger.Warn(
				"failed to decode journal record payload",
				"seq", record.Seq,
				"error", err,
			)
		}
		resp = append(resp, EventResponse{
			Seq:       record.Seq,
			Type:      record.Type,
			Timestamp: record.Timestamp,
			Payload:   payload,
		})
	}
	a.writeJSON(w, http.StatusOK, resp)
}
