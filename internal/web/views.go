// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package web

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomtom215/holocron/internal/client"
	"github.com/tomtom215/holocron/internal/models"
)

// SkeletonCards is the number of placeholder cards in the loading skeleton.
const SkeletonCards = 12

const unexpectedErrorMessage = "An unexpected error occurred"

// Card is the view model of one character card.
type Card struct {
	ID          string
	Name        string
	Description string

	// Degraded cards render only Name and Error.
	Degraded bool
	Error    string

	Gender    string
	BirthYear string
	Homeworld string
	Height    string
	Mass      string
	EyeColor  string
	HairColor string
	Ships     int
}

// NewCard builds the card for one result of the character envelope.
func NewCard(r models.CharacterResult) Card {
	if d, ok := r.Degraded(); ok {
		return Card{ID: d.ID, Name: d.Name, Degraded: true, Error: d.Error}
	}
	c, ok := r.Character()
	if !ok {
		return Card{}
	}

	card := Card{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Gender:      capitalize(c.BasicInfo.Gender),
		BirthYear:   c.BasicInfo.BirthYear,
		Height:      c.BasicInfo.Height,
		Mass:        c.BasicInfo.Mass,
		EyeColor:    c.BasicInfo.EyeColor,
		HairColor:   c.BasicInfo.HairColor,
		Ships:       len(c.Relations.Starships),
	}
	if c.Relations.Homeworld != nil {
		card.Homeworld = c.Relations.Homeworld.Name
	}
	return card
}

// capitalize title-cases each word of s.
func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

// ErrorPanel is the view model shown when the gateway call fails.
type ErrorPanel struct {
	Title    string
	Message  string
	RetryURL string
}

// NewErrorPanel titles 404s "Not Found" and everything else "Error". Only
// *client.APIError messages are shown verbatim.
func NewErrorPanel(err error, retryURL string) *ErrorPanel {
	panel := &ErrorPanel{Title: "Error", Message: unexpectedErrorMessage, RetryURL: retryURL}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		panel.Message = apiErr.Message
		if apiErr.Status == http.StatusNotFound {
			panel.Title = "Not Found"
		}
	}
	return panel
}

// EmptyState is the view model of a page with no results.
type EmptyState struct {
	Title   string
	Message string
}

// NewEmptyState words the message after the search, if any.
func NewEmptyState(search string) *EmptyState {
	msg := "No characters available at the moment."
	if search != "" {
		msg = fmt.Sprintf("No characters match \"%s\". Try a different search term.", search)
	}
	return &EmptyState{Title: "No characters found", Message: msg}
}

// Page is everything index.html renders.
type Page struct {
	Search   string
	ClearURL string

	Cards []Card
	Pager *Pager
	Empty *EmptyState
	Error *ErrorPanel

	// Skeleton slots for the placeholder grid.
	Skeleton []struct{}
}
