// Package client is a Go client for the bookstore API. It covers what the
// web front end does: log in, browse, keep a cart, check out, and the admin
// catalogue and order screens.
//
//	c := client.New("http://localhost:8080")
//	sess, err := c.Login(ctx, "uma@shop.test", "secret1")
//	c = c.WithSession(sess)
//	books, err := c.Books(ctx)
//	order, err := c.PlaceOrder(ctx, client.Cart{}.Add(books[0]), client.AddressRef{ID: addrID})
package client

import (
	"context"
	"encoding/json"
	"fmt"
	gohttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/pkg/http"
)

// APIError is a non-2xx answer decoded from the response envelope.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: HTTP %d", e.Status)
	}
	return fmt.Sprintf("client: HTTP %d: %s", e.Status, e.Message)
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Client talks to one API base URL. It is safe for concurrent use; a
// Client never changes after construction.
type Client struct {
	base    string
	http    *gohttp.Client
	timeout time.Duration
	session Session
}

// New returns a client for base, e.g. "http://localhost:8080".
func New(base string) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    http.DefaultClient,
		timeout: 15 * time.Second,
	}
}

// WithHTTPClient returns a copy sending through hc.
func (c *Client) WithHTTPClient(hc *gohttp.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// WithSession returns a copy authenticated as s.
func (c *Client) WithSession(s Session) *Client {
	cp := *c
	cp.session = s
	return &cp
}

func (c *Client) Session() Session { return c.session }

func (c *Client) BaseURL() string { return c.base }

func (c *Client) request(ctx context.Context, method, path string) *http.Request {
	return http.NewRequest(method, c.base+path).
		WithContext(ctx).
		Using(c.http).
		Timeout(c.timeout).
		Bearer(c.session.Token)
}

// send runs req and decodes the envelope data into dest when dest is set.
func send(req *http.Request, dest interface{}) error {
	resp, err := req.Send()
	if err != nil {
		return err
	}

	var env envelope
	if len(resp.Raw) > 0 {
		if err := resp.JSON(&env); err != nil && resp.OK() {
			return err
		}
	}
	if !resp.OK() {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("client: decode data: %w", err)
	}
	return nil
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

// Registration is the sign-up form. Role may be empty for a regular user.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

func (c *Client) Register(ctx context.Context, in Registration) (*models.Account, error) {
	var out models.Account
	if err := send(c.request(ctx, gohttp.MethodPost, "/api/auth/register").Body(in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns the session to pass to WithSession.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password}
	if err := send(c.request(ctx, gohttp.MethodPost, "/api/auth/login").Body(body), &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

// ─── Books ────────────────────────────────────────────────────────────────────

// BookForm is the add/edit book form. Zero fields are not sent, so an update
// keeps the stored value.
type BookForm struct {
	Title    string
	Author   string
	Price    float64
	Category string
}

func (f BookForm) fields() map[string]string {
	out := map[string]string{}
	if f.Title != "" {
		out["title"] = f.Title
	}
	if f.Author != "" {
		out["author"] = f.Author
	}
	if f.Price != 0 {
		out["price"] = strconv.FormatFloat(f.Price, 'f', -1, 64)
	}
	if f.Category != "" {
		out["category"] = f.Category
	}
	return out
}

// Image is a cover file to upload with a book.
type Image struct {
	Name string
	Data []byte
}

func (img *Image) part() *http.FilePart {
	if img == nil {
		return nil
	}
	return &http.FilePart{Field: "image", Name: img.Name, Data: img.Data}
}

func (c *Client) Books(ctx context.Context) ([]models.Book, error) {
	var out []models.Book
	if err := send(c.request(ctx, gohttp.MethodGet, "/api/books"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchBooks asks the server for books matching q.
func (c *Client) SearchBooks(ctx context.Context, q string) ([]models.Book, error) {
	var out []models.Book
	path := "/api/books?q=" + url.QueryEscape(q)
	if err := send(c.request(ctx, gohttp.MethodGet, path), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterBooks narrows an already fetched catalogue without a round trip.
func FilterBooks(books []models.Book, q string) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if b.Matches(q) {
			out = append(out, b)
		}
	}
	return out
}

func (c *Client) AddBook(ctx context.Context, f BookForm, img *Image) (*models.Book, error) {
	var out models.Book
	req := c.request(ctx, gohttp.MethodPost, "/api/books").Multipart(f.fields(), img.part())
	if err := send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, f BookForm, img *Image) (*models.Book, error) {
	var out models.Book
	req := c.request(ctx, gohttp.MethodPut, "/api/books/"+id).Multipart(f.fields(), img.part())
	if err := send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return send(c.request(ctx, gohttp.MethodDelete, "/api/books/"+id), nil)
}

// ─── Addresses ────────────────────────────────────────────────────────────────

// AddressForm is a shipping address as entered by the user.
type AddressForm struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	if err := send(c.request(ctx, gohttp.MethodGet, "/api/address"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAddress(ctx context.Context, f AddressForm) (*models.Address, error) {
	var out models.Address
	if err := send(c.request(ctx, gohttp.MethodPost, "/api/address").Body(f), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddress sends only the non-empty fields of f.
func (c *Client) UpdateAddress(ctx context.Context, id string, f AddressForm) (*models.Address, error) {
	var out models.Address
	if err := send(c.request(ctx, gohttp.MethodPut, "/api/address/"+id).Body(f), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return send(c.request(ctx, gohttp.MethodDelete, "/api/address/"+id), nil)
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// AddressRef picks the shipping address: a saved one by ID, or Inline.
type AddressRef struct {
	ID     string
	Inline *AddressForm
}

func (a AddressRef) payload() interface{} {
	if a.Inline != nil {
		return a.Inline
	}
	return map[string]string{"id": a.ID}
}

// PlaceOrder checks out cart. The cart itself is not modified; callers start
// a fresh Cart{} on success.
func (c *Client) PlaceOrder(ctx context.Context, cart Cart, addr AddressRef) (*models.Order, error) {
	body := map[string]interface{}{
		"items":       cart.Items(),
		"totalAmount": cart.Total(),
		"address":     addr.payload(),
	}
	var out models.Order
	if err := send(c.request(ctx, gohttp.MethodPost, "/api/orders").Body(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := send(c.request(ctx, gohttp.MethodGet, "/api/orders/my-orders"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := send(c.request(ctx, gohttp.MethodGet, "/api/orders"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	var out models.Order
	body := map[string]string{"status": status}
	if err := send(c.request(ctx, gohttp.MethodPut, "/api/orders/"+id+"/status").Body(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
