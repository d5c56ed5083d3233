package player

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const DefaultTitle = "Video Player"

// Source describes the media a controller is mounted with
type Source struct {
	URL    string `json:"url" yaml:"url" validate:"required,url|file"`
	Poster string `json:"poster,omitempty" yaml:"poster,omitempty" validate:"omitempty,url|file"`
	Title  string `json:"title" yaml:"title"`
	// Layout is an opaque styling hint passed through to the renderer
	Layout string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

var validate = validator.New()

// DisplayTitle returns the title, falling back to the default label
func (s Source) DisplayTitle() string {
	if strings.TrimSpace(s.Title) == "" {
		return DefaultTitle
	}
	return s.Title
}

// Validate checks that the source points at a URL or an existing file
func (s Source) Validate() error {
	if err := validate.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%w: %s is required", ErrInvalidSource, strings.ToLower(fe.Field()))
		default:
			return fmt.Errorf("%w: %s %q is neither a URL nor a file", ErrInvalidSource, strings.ToLower(fe.Field()), fe.Value())
		}
	}
	return nil
}

// Normalized returns a copy with the default title filled in
func (s Source) Normalized() Source {
	s.URL = strings.TrimSpace(s.URL)
	s.Poster = strings.TrimSpace(s.Poster)
	s.Title = s.DisplayTitle()
	return s
}
