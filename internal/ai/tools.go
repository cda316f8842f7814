package ai

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/generative-ai-go/genai"
)

const (
	FuncCheckRestaurants  = "check_restaurants"
	FuncGetBestRestaurant = "get_best_restaurant"

	// DefaultMinReviews is the declared default of get_best_restaurant's min_reviews.
	DefaultMinReviews = 100
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

var checkRestaurants = &genai.FunctionDeclaration{
	Name:        FuncCheckRestaurants,
	Description: "Check if there are restaurants based on Cuisine in a specific location",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"location": {Type: genai.TypeString, Description: "Location to search for restaurants"},
			"cuisine":  {Type: genai.TypeString, Description: "Cuisine type"},
		},
		Required: []string{"location", "cuisine"},
	},
}

var getBestRestaurant = &genai.FunctionDeclaration{
	Name:        FuncGetBestRestaurant,
	Description: "Get the best restaurant of user requested cuisine based on rating and number of reviews",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"location":    {Type: genai.TypeString, Description: "Location to search for the best restaurant"},
			"cuisine":     {Type: genai.TypeString, Description: "Cuisine type"},
			"min_reviews": {Type: genai.TypeInteger, Description: "Minimum number of reviews (default 100)"},
		},
		Required: []string{"location", "cuisine"},
	},
}

// RestaurantTool bundles both declarations into the single tool given to the model.
func RestaurantTool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{checkRestaurants, getBestRestaurant},
	}
}

// Declaration returns the declaration registered under name.
func Declaration(name string) (*genai.FunctionDeclaration, bool) {
	switch name {
	case FuncCheckRestaurants:
		return checkRestaurants, true
	case FuncGetBestRestaurant:
		return getBestRestaurant, true
	}
	return nil, false
}

// RestaurantQuery is the typed form of either restaurant function call.
type RestaurantQuery struct {
	Function   string
	Location   string
	Cuisine    string
	MinReviews int
}

// ParseRestaurantQuery validates call against its declaration and decodes it.
// Required string arguments must be present and strings; empty strings are
// accepted and passed through. MinReviews is DefaultMinReviews unless the
// call sets it.
func ParseRestaurantQuery(call FunctionCall) (RestaurantQuery, error) {
	decl, ok := Declaration(call.Name)
	if !ok {
		return RestaurantQuery{}, fmt.Errorf("%w: %q", ErrUnknownFunction, call.Name)
	}

	for _, field := range decl.Parameters.Required {
		v, present := call.Args[field]
		if !present {
			return RestaurantQuery{}, fmt.Errorf("%s: %w %q", call.Name, ErrMissingArgument, field)
		}
		if _, isString := v.(string); !isString {
			return RestaurantQuery{}, fmt.Errorf("%s: %w %q: want string, got %T", call.Name, ErrMissingArgument, field, v)
		}
	}

	q := RestaurantQuery{
		Function:   call.Name,
		Location:   call.Args["location"].(string),
		Cuisine:    call.Args["cuisine"].(string),
		MinReviews: DefaultMinReviews,
	}

	if call.Name == FuncGetBestRestaurant {
		if raw, present := call.Args["min_reviews"]; present && raw != nil {
			n, err := toInt(raw)
			if err != nil {
				return RestaurantQuery{}, fmt.Errorf("%s: %w \"min_reviews\": %v", call.Name, ErrInvalidArgument, err)
			}
			q.MinReviews = n
		}
	}
	return q, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case float32:
		return toInt(float64(n))
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}
