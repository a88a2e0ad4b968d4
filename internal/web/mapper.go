package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/willemschots/signups/internal/errorz"
)

// mapper is a generic HTTP handler that maps requests to target
// function calls and writes the output to the response.
type mapper[IN, OUT any] struct {
	s      *Server
	req    func(*http.Request) (IN, error)
	target func(context.Context, IN) (OUT, error)
	res    func(result[IN, OUT]) error
}

// result is the result of a succesful request.
// it contains all relevant data because we can't know
// in advance what we will need to construct a response.
type result[IN, OUT any] struct {
	s   *Server
	r   *http.Request
	w   http.ResponseWriter
	in  IN
	out OUT
}

// mapBoth creates a HTTP Handler that:
// 1. Maps the request to a value of input type IN.
// 2. Calls the target func with that value.
// 3. Writes the output of type OUT to the response using resFunc.
//
// Errors are written using the server error handler.
func mapBoth[IN, OUT any](s *Server, targetFunc func(context.Context, IN) (OUT, error), resFunc func(result[IN, OUT]) error) *mapper[IN, OUT] {
	return &mapper[IN, OUT]{
		s: s,
		req: func(r *http.Request) (IN, error) {
			return defaultRequest[IN](s, r)
		},
		target: targetFunc,
		res:    resFunc,
	}
}

// mapResponse creates a HTTP Handler that:
// 1. Calls the target func.
// 2. Writes the returned value of type OUT to the response using resFunc.
//
// Errors are written using the server error handler.
func mapResponse[OUT any](s *Server, targetFunc func(context.Context) (OUT, error), resFunc func(result[struct{}, OUT]) error) *mapper[struct{}, OUT] {
	return &mapper[struct{}, OUT]{
		s: s,
		req: func(r *http.Request) (struct{}, error) {
			return struct{}{}, nil
		},
		target: func(ctx context.Context, _ struct{}) (OUT, error) {
			return targetFunc(ctx)
		},
		res: resFunc,
	}
}

func (e *mapper[IN, OUT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := e.req(r)
	if err != nil {
		e.s.handleError(w, r, err)
		return
	}

	out, err := e.target(r.Context(), in)
	if err != nil {
		e.s.handleError(w, r, err)
		return
	}

	result := result[IN, OUT]{
		s:   e.s,
		r:   r,
		w:   w,
		in:  in,
		out: out,
	}

	err = e.res(result)
	if err != nil {
		e.s.handleError(w, r, err)
		return
	}
}

// defaultRequest is the default way to map a request to a struct.
// The form keys are validated against the validate tags of IN first,
// the form is then decoded into IN. Unknown keys are ignored.
func defaultRequest[IN any](s *Server, r *http.Request) (IN, error) {
	var in IN
	err := r.ParseForm()
	if err != nil {
		return in, errorz.InvalidInput{fmt.Errorf("failed to parse form: %w", err)}
	}

	form := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		form[key] = values
	}

	errs := s.validate.ValidateMapCtx(r.Context(), form, formRules[IN]())
	if len(errs) > 0 {
		return in, validationError(errs)
	}

	err = s.decoder.Decode(&in, r.PostForm)
	if err != nil {
		return in, decodeError(err)
	}

	return in, nil
}

// formRules collects the validate tags of IN, keyed by form key.
// Rules apply to the values of a key as a whole, so "required" only
// demands that the key is present.
func formRules[IN any]() map[string]any {
	rules := make(map[string]any)

	t := reflect.TypeOf((*IN)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return rules
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		rule := f.Tag.Get("validate")
		if key == "" || key == "-" || rule == "" {
			continue
		}
		rules[key] = rule
	}

	return rules
}

func decodeError(err error) error {
	var multiErr schema.MultiError
	if errors.As(err, &multiErr) {
		var invalidInput errorz.InvalidInput
		for key, e := range multiErr {
			invalidInput = append(invalidInput, errorz.Keyed{
				Key: key,
				Err: e,
			})
		}

		return invalidInput
	}

	return errorz.InvalidInput{err}
}

func validationError(errs map[string]any) error {
	var invalidInput errorz.InvalidInput
	for key, v := range errs {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("%v", v)
		}

		var valErrs validator.ValidationErrors
		if errors.As(err, &valErrs) {
			for _, e := range valErrs {
				invalidInput = append(invalidInput, errorz.Keyed{
					Key: key,
					Err: fmt.Errorf("failed on %q", e.Tag()),
				})
			}
			continue
		}

		invalidInput = append(invalidInput, errorz.Keyed{Key: key, Err: err})
	}

	return invalidInput
}
