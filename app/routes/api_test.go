package routes_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/app/routes"
	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/pkg/router"
	"github.com/shashiranjanraj/inkwell/pkg/storage"
	"github.com/shashiranjanraj/inkwell/pkg/testkit"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type api struct {
	h     http.Handler
	store *repositories.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := repositories.NewSQLStore(testkit.SQLite(t), "sqlite")
	require.NoError(t, store.Migrate(context.Background()))

	disk := storage.NewLocalDisk(t.TempDir(), "/storage")
	r := router.New()
	routes.RegisterAPI(r, routes.NewServices(store, storage.NewImagesOn(disk, 5<<20)))
	return &api{h: r.Handler(), store: store}
}

func (a *api) do(t *testing.T, req testkit.Request) *testkit.Response {
	t.Helper()
	return testkit.Do(t, a.h, req)
}

func (a *api) login(t *testing.T, first, email, role string) string {
	t.Helper()
	res := a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/auth/register", Body: map[string]string{
		"firstName": first, "lastName": "Tester", "email": email, "password": "secret1", "role": role,
	}})
	testkit.AssertStatus(t, res, http.StatusCreated, "Account created successfully")

	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{
		"email": email, "password": "secret1",
	}})
	testkit.AssertStatus(t, res, http.StatusOK, "Login successful")

	var out services.LoginResult
	res.Decode(t, &out)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, role, out.Role)
	return out.Token
}

func multipartBook(t *testing.T, fields map[string]string, filename string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCheckoutFlow(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "Ada", "admin@shop.test", "admin")
	user := a.login(t, "Uma", "uma@shop.test", "user")

	res := a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: map[string]interface{}{
		"title": "Go in Action", "author": "Kennedy", "price": 20.10, "category": "Technology",
	}})
	testkit.AssertStatus(t, res, http.StatusCreated, "Book added successfully")
	var goBook models.Book
	res.Decode(t, &goBook)

	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: map[string]interface{}{
		"title": "Dune", "author": "Herbert", "price": 9.99,
	}})
	testkit.AssertStatus(t, res, http.StatusCreated)
	var dune models.Book
	res.Decode(t, &dune)

	res = a.do(t, testkit.Request{Method: http.MethodGet, Path: "/api/books"})
	testkit.AssertStatus(t, res, http.StatusOK)
	var books []models.Book
	res.Decode(t, &books)
	require.Len(t, books, 2)
	assert.Equal(t, dune.ID, books[0].ID, "newest first")

	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/address", Token: user, Body: map[string]string{
		"name": "Uma", "phone": "9876543210", "street": "1 Main St", "city": "Pune", "state": "MH", "pincode": "411001",
	}})
	testkit.AssertStatus(t, res, http.StatusCreated, "Address added successfully")
	var addr models.Address
	res.Decode(t, &addr)
	assert.Equal(t, "uma@shop.test", addr.Email)

	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/orders", Token: user, Body: map[string]interface{}{
		"items": []map[string]interface{}{
			{"bookId": goBook.ID, "quantity": 2, "price": 0.01},
			{"bookId": dune.ID, "quantity": 1},
		},
		"address":     map[string]string{"id": addr.ID},
		"totalAmount": 1,
	}})
	testkit.AssertStatus(t, res, http.StatusCreated, "Order placed successfully")
	var order models.Order
	res.Decode(t, &order)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 50.19, order.TotalAmount, 0.0001)
	assert.Equal(t, "Pune", order.Address.City)

	// Later price changes do not touch the placed order.
	res = a.do(t, testkit.Request{Method: http.MethodPut, Path: "/api/books/" + goBook.ID, Token: admin, Body: map[string]interface{}{"price": 99}})
	testkit.AssertStatus(t, res, http.StatusOK, "Book updated successfully")

	res = a.do(t, testkit.Request{Method: http.MethodGet, Path: "/api/orders/my-orders", Token: user})
	testkit.AssertStatus(t, res, http.StatusOK)
	var mine []models.Order
	res.Decode(t, &mine)
	require.Len(t, mine, 1)
	assert.InDelta(t, 20.10, mine[0].Items[0].Price, 0.0001)

	res = a.do(t, testkit.Request{Method: http.MethodGet, Path: "/api/orders", Token: admin})
	testkit.AssertStatus(t, res, http.StatusOK)
	var all []models.Order
	res.Decode(t, &all)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "uma@shop.test", all[0].User.Email)

	res = a.do(t, testkit.Request{Method: http.MethodPut, Path: "/api/orders/" + order.ID + "/status", Token: admin, Body: map[string]string{"status": "Shipped"}})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Invalid status")

	res = a.do(t, testkit.Request{Method: http.MethodPut, Path: "/api/orders/" + order.ID + "/status", Token: admin, Body: map[string]string{"status": "Confirmed"}})
	testkit.AssertStatus(t, res, http.StatusOK, "Order status updated")

	res = a.do(t, testkit.Request{Method: http.MethodPut, Path: "/api/orders/" + order.ID + "/status", Token: admin, Body: map[string]string{"status": "Cancelled"}})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Order is already Confirmed")

	res = a.do(t, testkit.Request{Method: http.MethodPut, Path: "/api/orders/missing/status", Token: admin, Body: map[string]string{"status": "Confirmed"}})
	testkit.AssertStatus(t, res, http.StatusNotFound, "Order not found")
}

func TestAccessControl(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "Ada", "admin@shop.test", "admin")
	user := a.login(t, "Uma", "uma@shop.test", "user")

	cases := []struct {
		name    string
		req     testkit.Request
		code    int
		message string
	}{
		{"no token", testkit.Request{Method: http.MethodGet, Path: "/api/address"}, http.StatusUnauthorized, "No token provided"},
		{"no token adds book", testkit.Request{Method: http.MethodPost, Path: "/api/books", Body: map[string]interface{}{"title": "x", "author": "y", "price": 1}}, http.StatusUnauthorized, "No token provided"},
		{"no token edits book", testkit.Request{Method: http.MethodPut, Path: "/api/books/x", Body: map[string]interface{}{"price": 2}}, http.StatusUnauthorized, "No token provided"},
		{"no token deletes book", testkit.Request{Method: http.MethodDelete, Path: "/api/books/x"}, http.StatusUnauthorized, "No token provided"},
		{"no token lists all orders", testkit.Request{Method: http.MethodGet, Path: "/api/orders"}, http.StatusUnauthorized, "No token provided"},
		{"no token sets order status", testkit.Request{Method: http.MethodPut, Path: "/api/orders/x/status", Body: map[string]string{"status": "Confirmed"}}, http.StatusUnauthorized, "No token provided"},
		{"no token places order", testkit.Request{Method: http.MethodPost, Path: "/api/orders", Body: map[string]interface{}{}}, http.StatusUnauthorized, "No token provided"},
		{"bad token", testkit.Request{Method: http.MethodGet, Path: "/api/address", Token: "nope"}, http.StatusUnauthorized, "Invalid token"},
		{"user adds book", testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: user, Body: map[string]interface{}{"title": "x", "author": "y", "price": 1}}, http.StatusForbidden, "Access denied"},
		{"user edits book", testkit.Request{Method: http.MethodPut, Path: "/api/books/x", Token: user, Body: map[string]interface{}{"price": 2}}, http.StatusForbidden, "Access denied"},
		{"user deletes book", testkit.Request{Method: http.MethodDelete, Path: "/api/books/x", Token: user}, http.StatusForbidden, "Access denied"},
		{"user sets order status", testkit.Request{Method: http.MethodPut, Path: "/api/orders/x/status", Token: user, Body: map[string]string{"status": "Confirmed"}}, http.StatusForbidden, "Access denied"},
		{"user lists all orders", testkit.Request{Method: http.MethodGet, Path: "/api/orders", Token: user}, http.StatusForbidden, "Access denied"},
		{"admin places order", testkit.Request{Method: http.MethodPost, Path: "/api/orders", Token: admin, Body: map[string]interface{}{}}, http.StatusForbidden, "Access denied"},
		{"admin adds address", testkit.Request{Method: http.MethodPost, Path: "/api/address", Token: admin, Body: "not even json"}, http.StatusForbidden, "Admin cannot add address"},
		{"admin edits address", testkit.Request{Method: http.MethodPut, Path: "/api/address/x", Token: admin, Body: map[string]string{}}, http.StatusForbidden, "Admin cannot edit address"},
		{"admin deletes address", testkit.Request{Method: http.MethodDelete, Path: "/api/address/x", Token: admin}, http.StatusForbidden, "Admin cannot delete address"},
		{"admin lists addresses", testkit.Request{Method: http.MethodGet, Path: "/api/address", Token: admin}, http.StatusForbidden, "Admin cannot have addresses"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			testkit.AssertStatus(t, a.do(t, tc.req), tc.code, tc.message)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t)
	a.login(t, "Uma", "uma@shop.test", "user")

	res := a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/auth/register", Body: map[string]string{
		"firstName": "Uma", "lastName": "Again", "email": "UMA@shop.test", "password": "secret1",
	}})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Email already registered")

	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/auth/register", Body: map[string]string{
		"firstName": "", "lastName": "X", "email": "bad", "password": "1",
	}})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Validation failed")
	assert.Contains(t, res.Envelope.Errors, "email")
	assert.Contains(t, res.Envelope.Errors, "password")

	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{
		"email": "uma@shop.test", "password": "wrong-one",
	}})
	testkit.AssertStatus(t, res, http.StatusUnauthorized, "Invalid credentials")
}

func TestBookUpload(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "Ada", "admin@shop.test", "admin")

	body, ct := multipartBook(t, map[string]string{"title": "Dune", "author": "Herbert", "price": "9.99"}, "Dune Cover.PNG", pngHeader)
	res := a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: body, ContentType: ct})
	testkit.AssertStatus(t, res, http.StatusCreated, "Book added successfully")
	var book models.Book
	res.Decode(t, &book)
	assert.True(t, strings.HasPrefix(book.CoverImage, "/storage/books/"), book.CoverImage)
	assert.True(t, strings.HasSuffix(book.CoverImage, "-dune-cover.png"), book.CoverImage)

	body, ct = multipartBook(t, map[string]string{"title": "Notes", "author": "Me", "price": "1"}, "notes.png", []byte("plain text, not an image"))
	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: body, ContentType: ct})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Only image files are allowed")

	body, ct = multipartBook(t, map[string]string{"title": "Notes", "author": "Me"}, "", nil)
	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: body, ContentType: ct})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Title, author, and price are required")

	for _, price := range []string{"Inf", "NaN", "1e999"} {
		body, ct = multipartBook(t, map[string]string{"title": "Endless", "author": "Nobody", "price": price}, "", nil)
		res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: body, ContentType: ct})
		testkit.AssertStatus(t, res, http.StatusBadRequest, "invalid value for price: must be a number")
	}

	body, ct = multipartBook(t, map[string]string{"title": "Pricey", "author": "Nobody", "price": "5000000"}, "", nil)
	res = a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: body, ContentType: ct})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Validation failed")
	assert.Equal(t, "The price may not be greater than 1000000.", res.Envelope.Errors["price"])

	res = a.do(t, testkit.Request{Method: http.MethodGet, Path: "/api/books"})
	testkit.AssertStatus(t, res, http.StatusOK, "")
	var books []models.Book
	res.Decode(t, &books)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	res = a.do(t, testkit.Request{Method: http.MethodDelete, Path: "/api/books/" + book.ID, Token: admin})
	testkit.AssertStatus(t, res, http.StatusOK, "Book deleted successfully")

	res = a.do(t, testkit.Request{Method: http.MethodDelete, Path: "/api/books/" + book.ID, Token: admin})
	testkit.AssertStatus(t, res, http.StatusNotFound, "Book not found")
}

func TestOrderRequiresCart(t *testing.T) {
	a := newAPI(t)
	user := a.login(t, "Uma", "uma@shop.test", "user")

	res := a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/orders", Token: user, Body: map[string]interface{}{"items": []interface{}{}}})
	testkit.AssertStatus(t, res, http.StatusBadRequest, "Cart is empty")
}

func TestBookSearch(t *testing.T) {
	a := newAPI(t)
	admin := a.login(t, "Ada", "admin@shop.test", "admin")

	for _, b := range []map[string]interface{}{
		{"title": "Dune", "author": "Frank Herbert", "price": 9, "category": "Fiction"},
		{"title": "Wings of Fire", "author": "Abdul Kalam", "price": 5, "category": "Biography"},
	} {
		res := a.do(t, testkit.Request{Method: http.MethodPost, Path: "/api/books", Token: admin, Body: b})
		testkit.AssertStatus(t, res, http.StatusCreated)
	}

	search := func(q string) []models.Book {
		res := a.do(t, testkit.Request{Method: http.MethodGet, Path: "/api/books?q=" + q})
		testkit.AssertStatus(t, res, http.StatusOK)
		var books []models.Book
		res.Decode(t, &books)
		return books
	}

	assert.Len(t, search(""), 2)
	got := search("BIOGRAPHY")
	require.Len(t, got, 1)
	assert.Equal(t, "Wings of Fire", got[0].Title)
	got = search("frank%20herb")
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Empty(t, search("tolkien"))
}
