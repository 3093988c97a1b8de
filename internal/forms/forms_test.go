package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validStoreForm() StoreForm {
	return StoreForm{
		Name:        "Coffee Corner",
		Description: "Best flat white in town",
		Address:     "12 Bean Street",
		Lng:         4.895,
		Lat:         52.370,
		Tags:        []string{"Wifi"},
	}
}

func TestStoreFormValid(t *testing.T) {
	assert.Empty(t, validStoreForm().Validate())
}

func TestStoreFormMessages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*StoreForm)
		want   string
	}{
		{"blank name", func(f *StoreForm) { f.Name = "" }, "Store name cannot be blank"},
		{"name too long", func(f *StoreForm) { f.Name = strings.Repeat("a", 41) }, "Store name cannot be greater than 40 characters"},
		{"non-ascii name", func(f *StoreForm) { f.Name = "Café Olé" }, "Illegal characters in store name"},
		{"blank description", func(f *StoreForm) { f.Description = "" }, "Description cannot be blank"},
		{"blank address", func(f *StoreForm) { f.Address = "" }, "Address cannot be blank"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validStoreForm()
			tc.mutate(&f)
			assert.Contains(t, f.Validate(), tc.want)
		})
	}
}

func TestStoreFormNameBoundary(t *testing.T) {
	f := validStoreForm()
	f.Name = strings.Repeat("a", 40)
	assert.Empty(t, f.Validate())
}

func TestReviewFormRating(t *testing.T) {
	for rating, ok := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		f := ReviewForm{Text: "great", Rating: rating}
		msgs := f.Validate()
		if ok {
			assert.Empty(t, msgs, "rating %d", rating)
		} else {
			assert.Contains(t, msgs, "Your review must contain a rating between 1 and 5 stars", "rating %d", rating)
		}
	}
}

func TestReviewFormRequiresText(t *testing.T) {
	f := ReviewForm{Rating: 4}
	assert.Contains(t, f.Validate(), "Your review must contain some text")
}

func TestSignupForm(t *testing.T) {
	ok := SignupForm{Name: "wes", Email: "wes@example.com", Password: "secret", PasswordConfirm: "secret"}
	assert.Empty(t, ok.Validate())

	mismatch := ok
	mismatch.PasswordConfirm = "different"
	assert.Contains(t, mismatch.Validate(), "Your passwords don't match")

	badEmail := ok
	badEmail.Email = "not-an-email"
	assert.Contains(t, badEmail.Validate(), "That email isn't valid")
}

func TestResetForm(t *testing.T) {
	assert.Empty(t, ResetForm{Password: "new", PasswordConfirm: "new"}.Validate())
	assert.Contains(t, ResetForm{Password: "new", PasswordConfirm: "old"}.Validate(), "Your passwords don't match")
	assert.Contains(t, ResetForm{}.Validate(), "Password cannot be blank")
}

func TestAccountForm(t *testing.T) {
	assert.Empty(t, AccountForm{Name: "wes", Email: "wes@example.com"}.Validate())
	assert.Contains(t, AccountForm{Email: "wes@example.com"}.Validate(), "Please enter a username")
}
