package content

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// validate enforces the authoring contract on the raw envelope: title,
// description, and publishDate are required; a coverImage must carry
// both src and alt; tag entries may not be blank.
func (env envelope) validate() error {
	err := validation.ValidateStruct(&env,
		validation.Field(&env.Title, validation.Required),
		validation.Field(&env.Description, validation.Required),
		validation.Field(&env.PublishDate, validation.Required),
		validation.Field(&env.Tags, validation.Each(validation.Required)),
		validation.Field(&env.Cover),
	)
	if err != nil {
		return fmt.Errorf("frontmatter: %w", err)
	}
	return nil
}

// Validate implements validation.Validatable so a present coverImage is
// checked as a unit.
func (c CoverImage) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Src, validation.Required),
		validation.Field(&c.Alt, validation.Required),
	)
}
