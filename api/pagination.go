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
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPageCount = 100
	maxPageCount     = 100
	firstPage        = 1

	orderAsc  = "asc"
	orderDesc = "desc"
)

var errInvalidPageQuery = errors.New("invalid pagination query")

// pageQuery holds the count, page and order parameters shared by every
// paged list endpoint.
type pageQuery struct {
	Count int
	Page  int
	Order string
}

// parsePageQuery reads count, page and order from the request query,
// falling back to defaults and clamping out-of-range values.
func parsePageQuery(r *http.Request) (pageQuery, error) {
	pq := pageQuery{
		Count: defaultPageCount,
		Page:  firstPage,
		Order: orderAsc,
	}

	query := r.URL.Query()
	for _, field := range []struct {
		dest *int
		key  string
	}{
		{&pq.Count, "count"},
		{&pq.Page, "page"},
	} {
		raw := query.Get(field.key)
		if raw == "" {
			continue
		}
		val, err := strconv.Atoi(raw)
		if err != nil {
			return pageQuery{}, errInvalidPageQuery
		}
		*field.dest = val
	}

	if raw := query.Get("order"); raw != "" {
		switch strings.ToLower(raw) {
		case orderAsc:
			pq.Order = orderAsc
		case orderDesc:
			pq.Order = orderDesc
		default:
			return pageQuery{}, errInvalidPageQuery
		}
	}

	pq.Count = min(max(pq.Count, 1), maxPageCount)
	pq.Page = max(pq.Page, firstPage)
	return pq, nil
}

// writePageHeaders reports the result set totals to the client
func writePageHeaders(w http.ResponseWriter, totalItems int, pq pageQuery) {
	if totalItems < 0 {
		totalItems = 0
	}
	count := pq.Count
	if count < 1 {
		count = defaultPageCount
	}
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + count - 1) / count
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(totalItems))
	w.Header().Set("X-Total-Pages", strconv.Itoa(totalPages))
}

// pageBounds converts the page selection into slice bounds over a result
// set of the given size. Pages past the end come back empty.
func pageBounds(totalItems int, pq pageQuery) (start, end int) {
	start = min((pq.Page-1)*pq.Count, totalItems)
	end = min(start+pq.Count, totalItems)
	return start, end
}
