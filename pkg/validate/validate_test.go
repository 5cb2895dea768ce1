package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/inkwell/pkg/validate"
)

type signupInput struct {
	FirstName string `json:"firstName" validate:"required,person_name,max=50"`
	LastName  string `json:"lastName"  validate:"required,person_name,max=50"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	Role      string `json:"role"      validate:"omitempty,role"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(signupInput{
		FirstName: "Mary",
		LastName:  "O'Neil",
		Email:     "mary@example.com",
		Password:  "secret1",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFailsUseJSONNames(t *testing.T) {
	errs := validate.Struct(signupInput{})
	assert.Equal(t, "The firstName field is required.", errs["firstName"])
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "role")
}

func TestPersonNameRejectsDigits(t *testing.T) {
	errs := validate.Struct(signupInput{
		FirstName: "R2D2",
		LastName:  "Droid",
		Email:     "r2@example.com",
		Password:  "secret1",
	})
	assert.Equal(t, "The firstName may only contain letters.", errs["firstName"])
}

func TestPasswordMinLength(t *testing.T) {
	errs := validate.Struct(signupInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "123",
	})
	assert.Equal(t, "The password must be at least 6 characters.", errs["password"])
}

func TestRoleRule(t *testing.T) {
	errs := validate.Struct(signupInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "123456", Role: "root",
	})
	assert.Contains(t, errs, "role")
}

func TestCategoryRule(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"omitempty,category"`
	}

	assert.Empty(t, validate.Struct(in{}))
	assert.Empty(t, validate.Struct(in{Category: "Self Help"}))
	assert.Contains(t, validate.Struct(in{Category: "Cooking"}), "category")
}

func TestOrderStatusRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,order_status"`
	}

	assert.Empty(t, validate.Struct(in{Status: "Confirmed"}))
	assert.Empty(t, validate.Struct(in{Status: "Cancelled"}))
	assert.Equal(t, "Invalid status", validate.Struct(in{Status: "Pending"})["status"])
}

func TestPointerFieldsSkipWhenNil(t *testing.T) {
	type patch struct {
		Phone *string `json:"phone" validate:"omitempty,phone"`
	}

	assert.Empty(t, validate.Struct(patch{}))

	bad := "12"
	assert.Contains(t, validate.Struct(&patch{Phone: &bad}), "phone")

	good := "+919876543210"
	assert.Empty(t, validate.Struct(&patch{Phone: &good}))
}

func TestNestedSliceFieldPath(t *testing.T) {
	type item struct {
		BookID   string `json:"bookId"   validate:"required"`
		Quantity int    `json:"quantity" validate:"gte=1"`
	}
	type order struct {
		Items []item `json:"items" validate:"dive"`
	}

	errs := validate.Struct(order{Items: []item{{BookID: "b1", Quantity: 1}, {Quantity: 0}}})
	assert.Contains(t, errs, "items[1].bookId")
	assert.Contains(t, errs, "items[1].quantity")
	assert.NotContains(t, errs, "items[0].bookId")
}

func TestVar(t *testing.T) {
	assert.Empty(t, validate.Var("email", "a@b.co", "email"))
	assert.Equal(t, "The email must be a valid email address.", validate.Var("email", "nope", "email"))
}

func TestNonStructIsNoop(t *testing.T) {
	assert.Empty(t, validate.Struct(42))
	var p *signupInput
	assert.Empty(t, validate.Struct(p))
}

func TestPhoneAllowsSeparators(t *testing.T) {
	for _, s := range []string{"9876543210", "+919876543210", "98765 43210", "+91-98765-43210", "+1 415 555 0100"} {
		assert.True(t, validate.IsPhone(s), s)
	}
	for _, s := range []string{"", "12345", "98765  43210", "-9876543210", "9876543210-", "+91--9876543210", "98765_43210", "1234567890123456", "phone"} {
		assert.False(t, validate.IsPhone(s), s)
	}
}
