package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// a partial update must change something, and any badges it carries must be complete
	v.RegisterStructValidation(updateMenuItemStructValidation, UpdateMenuItemRequest{})

	return v
}

func updateMenuItemStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateMenuItemRequest)

	if req.Name == nil && req.PriceCents == nil && req.ImageURL == nil &&
		req.ImagePlaceholderURL == nil && req.Badges == nil && req.IsActive == nil {
		sl.ReportError(req, "body", "UpdateMenuItemRequest", "non_empty_patch", "")
		return
	}

	if req.Badges != nil {
		for _, b := range *req.Badges {
			if b.Label == "" || b.Color == "" {
				sl.ReportError(req.Badges, "badges", "Badges", "badge_complete", "")
				return
			}
		}
	}
}
