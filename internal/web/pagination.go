// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package web

import (
	"net/url"
	"strconv"
)

// paginationDelta is how many neighbours of the current page are shown.
const paginationDelta = 2

// Ellipsis marks a gap in VisiblePages.
const Ellipsis = 0

// VisiblePages returns the page numbers to render for current of total,
// with Ellipsis where a run of pages is skipped:
//
//	VisiblePages(10, 20) = [1 0 8 9 10 11 12 0 20]
func VisiblePages(current, total int) []int {
	pages := []int{1}
	if current-paginationDelta > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := max(2, current-paginationDelta); i <= min(total-1, current+paginationDelta); i++ {
		pages = append(pages, i)
	}
	if current+paginationDelta < total-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}

// PageURL copies query, sets page (and search when non-empty) and renders
// the result as a root-relative URL.
func PageURL(query url.Values, page int, search string) string {
	q := cloneValues(query)
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}
	return "/?" + q.Encode()
}

// SearchURL is where a search submission leads: search is set, or removed
// when empty, and page is always dropped.
func SearchURL(query url.Values, search string) string {
	q := cloneValues(query)
	if search != "" {
		q.Set("search", search)
	} else {
		q.Del("search")
	}
	q.Del("page")
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// PageLink is one entry of the rendered pager.
type PageLink struct {
	Number   int
	URL      string
	Current  bool
	Ellipsis bool
}

// Pager is the view model of the pagination bar.
type Pager struct {
	Links        []PageLink
	PrevURL      string
	NextURL      string
	PrevDisabled bool
	NextDisabled bool
}

// NewPager builds the pagination bar, or returns nil when there is at most
// one page and the bar is hidden.
func NewPager(current, total int, query url.Values, search string) *Pager {
	if total <= 1 {
		return nil
	}
	p := &Pager{
		PrevDisabled: current <= 1,
		NextDisabled: current >= total,
	}
	if !p.PrevDisabled {
		p.PrevURL = PageURL(query, current-1, search)
	}
	if !p.NextDisabled {
		p.NextURL = PageURL(query, current+1, search)
	}
	for _, n := range VisiblePages(current, total) {
		if n == Ellipsis {
			p.Links = append(p.Links, PageLink{Ellipsis: true})
			continue
		}
		p.Links = append(p.Links, PageLink{
			Number:  n,
			URL:     PageURL(query, n, search),
			Current: n == current,
		})
	}
	return p
}
