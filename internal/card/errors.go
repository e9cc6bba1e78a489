package card

import (
	"errors"
	"fmt"
)

var ErrResourceLoad = errors.New("resource load failed")

type ResourceKind string

const (
	KindBackground ResourceKind = "background"
	KindPhoto      ResourceKind = "photo"
	KindBarcode    ResourceKind = "barcode"
	KindTemplate   ResourceKind = "template"
	KindFont       ResourceKind = "font"
)

// ResourceError reports an image, template or font that could not be
// resolved. It matches ErrResourceLoad with errors.Is.
type ResourceError struct {
	Kind ResourceKind
	Ref  string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s %q", e.Kind, e.Ref)
	}
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Ref, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResourceLoad}
	}
	return []error{ErrResourceLoad, e.Err}
}

func NewResourceError(kind ResourceKind, ref string, err error) error {
	return &ResourceError{Kind: kind, Ref: ref, Err: err}
}
