package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/morgaesis/wishapp/internal/errs"
	"github.com/morgaesis/wishapp/wishlist"
)

// wishlistRequest is the body of POST and PUT.
type wishlistRequest struct {
	ID    string   `json:"id"`
	Name  string   `json:"name" validate:"required"`
	Owner string   `json:"owner" validate:"required"`
	Items []string `json:"items"`
}

func (r wishlistRequest) toWishlist() wishlist.Wishlist {
	return wishlist.Wishlist{
		ID:    r.ID,
		Name:  r.Name,
		Owner: r.Owner,
		Items: r.Items,
	}.Normalize()
}

// deleteRequest is the body of DELETE. Other fields are ignored so a client
// may send back a whole record.
type deleteRequest struct {
	ID string `json:"id"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes exactly one JSON value from body into dst. With strict
// set, unknown fields are rejected.
func decodeJSON(body []byte, dst any, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return errs.NewSerialization(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewSerialization(errors.New("unexpected data after JSON value"))
	}
	return nil
}

// validateStruct runs the validate tags on v and reports failures as BadRequest.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Wrap(errs.BadRequest, "invalid request", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fe.Field()+" is required")
		default:
			problems = append(problems, fe.Field()+" failed "+fe.Tag())
		}
	}
	return errs.NewBadRequest("invalid wishlist: " + strings.Join(problems, "; "))
}
