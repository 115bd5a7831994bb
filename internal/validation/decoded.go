package validation

// Decoded is embedded in request inputs to carry field errors found while
// the body was decoded, such as a number sent for a string field. Struct
// reports them in place of whatever the tags say about that field.
type Decoded struct {
	decodeErrs Errors
}

// SetDecodeErrors records errs for the next Struct call.
func (d *Decoded) SetDecodeErrors(errs Errors) {
	d.decodeErrs = errs
}

func (d Decoded) DecodeErrors() Errors {
	return d.decodeErrs
}

// DecodeErrorSetter is implemented by pointers to inputs embedding Decoded.
type DecodeErrorSetter interface {
	SetDecodeErrors(errs Errors)
}

type decodeErrorer interface {
	DecodeErrors() Errors
}
