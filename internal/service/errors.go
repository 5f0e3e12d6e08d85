package service

import (
	"errors"

	"github.com/pageza/recipe-catalog/backend/internal/llm"
)

var (
	// ErrRecipeNotFound is returned when an id resolves to no record.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrMalformedID is returned when an id is not a valid recipe key.
	ErrMalformedID = errors.New("invalid recipe ID")

	// ErrDescriptionRequired is returned by Generate without a description.
	ErrDescriptionRequired = errors.New("please provide a recipe description")
)

// UpstreamError reports that the language model could not be reached or
// did not answer in time.
type UpstreamError = llm.UpstreamError
