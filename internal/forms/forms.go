// Package forms declares the request DTOs bound from HTML form submissions
// and their validation rules. Validation failures come back as plain
// user-facing strings ready to flash.
package forms

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// StoreForm carries the create/edit store submission. Lng/Lat are bound
// from the location picker's hidden fields. Names are limited to printable
// ASCII, matching the character validation on the canonical model.
type StoreForm struct {
	Name        string   `form:"name" validate:"required,max=40,printascii"`
	Description string   `form:"description" validate:"required"`
	Address     string   `form:"address" validate:"required"`
	Lng         float64  `form:"lng"`
	Lat         float64  `form:"lat"`
	Tags        []string `form:"tags"`
}

// Validate reports every problem with the submission, not just the first.
func (f StoreForm) Validate() []string {
	var msgs []string
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Name":
				switch fe.Tag() {
				case "max":
					msgs = append(msgs, "Store name cannot be greater than 40 characters")
				case "printascii":
					msgs = append(msgs, "Illegal characters in store name")
				default:
					msgs = append(msgs, "Store name cannot be blank")
				}
			case "Description":
				msgs = append(msgs, "Description cannot be blank")
			case "Address":
				msgs = append(msgs, "Address cannot be blank")
			}
		}
	}
	return msgs
}

// SignupForm carries the registration submission.
type SignupForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required"`
	PasswordConfirm string `form:"password-confirm" validate:"required,eqfield=Password"`
}

func (f SignupForm) Validate() []string {
	var msgs []string
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Name":
				msgs = append(msgs, "Please enter a username")
			case "Email":
				msgs = append(msgs, "That email isn't valid")
			case "Password":
				msgs = append(msgs, "Password cannot be blank")
			case "PasswordConfirm":
				if fe.Tag() == "eqfield" {
					msgs = append(msgs, "Your passwords don't match")
				} else {
					msgs = append(msgs, "Confirmed password cannot be blank")
				}
			}
		}
	}
	return msgs
}

// ReviewForm carries a review submission. Ratings are whole stars from
// one to five.
type ReviewForm struct {
	Text   string `form:"text" validate:"required"`
	Rating int    `form:"rating" validate:"required,min=1,max=5"`
}

func (f ReviewForm) Validate() []string {
	var msgs []string
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Text":
				msgs = append(msgs, "Your review must contain some text")
			case "Rating":
				msgs = append(msgs, "Your review must contain a rating between 1 and 5 stars")
			}
		}
	}
	return msgs
}

// AccountForm carries the profile update submission.
type AccountForm struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
}

func (f AccountForm) Validate() []string {
	var msgs []string
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Name":
				msgs = append(msgs, "Please enter a username")
			case "Email":
				msgs = append(msgs, "That email isn't valid")
			}
		}
	}
	return msgs
}

// ResetForm carries the new password pair from the reset page.
type ResetForm struct {
	Password        string `form:"password" validate:"required"`
	PasswordConfirm string `form:"password-confirm" validate:"required,eqfield=Password"`
}

func (f ResetForm) Validate() []string {
	var msgs []string
	if err := validate.Struct(f); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			if fe.Field() == "PasswordConfirm" && fe.Tag() == "eqfield" {
				msgs = append(msgs, "Your passwords don't match")
			} else {
				msgs = append(msgs, "Password cannot be blank")
			}
		}
	}
	return msgs
}
