package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sguter90/microclimate/pkg/models"
	"github.com/shopspring/decimal"
)

// formReader coerces submitted form fields and keeps the first parse error
type formReader struct {
	r   *http.Request
	err error
}

func newFormReader(r *http.Request) (*formReader, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: malformed form body", models.ErrValidation)
	}
	return &formReader{r: r}, nil
}

func (f *formReader) fail(name, what string) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: %s must be %s", models.ErrValidation, name, what)
	}
}

// String returns the trimmed field value
func (f *formReader) String(name string) string {
	return strings.TrimSpace(f.r.PostForm.Get(name))
}

// OptionalString returns nil for an empty field
func (f *formReader) OptionalString(name string) *string {
	v := f.String(name)
	if v == "" {
		return nil
	}
	return &v
}

// ID returns 0 for an empty field, leaving the required check to Validate
func (f *formReader) ID(name string) int64 {
	v := f.String(name)
	if v == "" {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f.fail(name, "a whole number")
		return 0
	}
	return id
}

func (f *formReader) Decimal(name string) decimal.Decimal {
	v := f.String(name)
	if v == "" {
		f.fail(name, "provided")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		f.fail(name, "a number")
		return decimal.Zero
	}
	return d
}

// OptionalDecimal returns zero for an empty field
func (f *formReader) OptionalDecimal(name string) decimal.Decimal {
	if f.String(name) == "" {
		return decimal.Zero
	}
	return f.Decimal(name)
}

// Date parses a 2006-01-02 field; empty yields the zero time
func (f *formReader) Date(name string) time.Time {
	return f.time(name, models.DateLayout, "a date (YYYY-MM-DD)")
}

// DateTime parses a 2006-01-02T15:04 field; empty yields the zero time
func (f *formReader) DateTime(name string) time.Time {
	return f.time(name, models.DateTimeLayout, "a date and time (YYYY-MM-DDTHH:MM)")
}

func (f *formReader) time(name, layout, what string) time.Time {
	v := f.String(name)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(layout, v, time.UTC)
	if err != nil {
		f.fail(name, what)
		return time.Time{}
	}
	return t
}

// Err returns the first coercion error
func (f *formReader) Err() error {
	return f.err
}

// pathID returns the {id} route variable
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", models.ErrValidation)
	}
	return id, nil
}

// queryID reads an optional numeric filter; anything unparsable means no filter
func queryID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// hasPathID reports whether the route carries an {id}, i.e. an edit page
func hasPathID(r *http.Request) bool {
	_, ok := mux.Vars(r)["id"]
	return ok
}
