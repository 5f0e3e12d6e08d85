package imagesearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipe-catalog/backend/internal/llm"
)

// ToolName is the name the model uses to request a dish photo.
const ToolName = "search_dish_image"

// Searcher is the part of Client the tool needs.
type Searcher interface {
	Search(ctx context.Context, query string) (*Photo, error)
}

// Tool exposes s to the model. A search without hits is a normal result
// with an empty imageUrl, not an error.
func Tool(s Searcher) llm.Tool {
	return llm.Tool{
		Def: llm.ToolDef{
			Name:        ToolName,
			Description: "Find a real photo of a dish. Returns imageUrl, which may be empty when nothing suitable exists. Use it as the recipe's imageUrl.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Dish name, optionally with the cuisine, e.g. \"pad thai\"",
					},
				},
				"required": []string{"query"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, fmt.Errorf("argument %q must be a non-empty string", "query")
			}
			photo, err := s.Search(ctx, query)
			if errors.Is(err, ErrNoResults) {
				return Photo{}, nil
			}
			if err != nil {
				return nil, err
			}
			return photo, nil
		},
	}
}
