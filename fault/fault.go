// Package fault defines a well-known error type carrying a stable code
// and an operator-facing resolution, usable anywhere a plain error is.
package fault

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ib-subnet/lidmgr/fault/code"
)

// Resolution represents a potential fault resolution.
type Resolution string

const (
	// ResolutionEmpty is equivalent to an empty string.
	ResolutionEmpty = Resolution("")
	// ResolutionUnknown indicates that there is no known resolution for
	// the fault.
	ResolutionUnknown = Resolution("no known resolution")
	// ResolutionNone indicates that the fault cannot be resolved.
	ResolutionNone = Resolution("none")
)

func (r Resolution) String() string {
	return string(r)
}

const (
	UnknownDomainStr      = "unknown"
	UnknownDescriptionStr = "unknown fault"
)

// UnknownFault represents an unknown fault.
var UnknownFault = &Fault{
	Code:       code.Unknown,
	Resolution: ResolutionUnknown,
}

// Fault represents a well-known error specific to a domain, along with
// an optional resolution. It implements the error interface and can be
// used interchangeably with regular errors.
type Fault struct {
	Domain      string
	Code        code.Code
	Description string
	Resolution  Resolution
}

func sanitizeDomain(inDomain string) string {
	if inDomain == "" {
		return UnknownDomainStr
	}
	return strings.Join(strings.Fields(strings.Replace(inDomain, ":", " ", -1)), "_")
}

func sanitizeDescription(inDescription string) string {
	if inDescription == "" {
		return UnknownDescriptionStr
	}
	return inDescription
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: code = %d description = %q",
		sanitizeDomain(f.Domain), f.Code, sanitizeDescription(f.Description))
}

// Equals compares raw's underlying cause to f by fault code.
func (f *Fault) Equals(raw error) bool {
	other, ok := errors.Cause(raw).(*Fault)
	if !ok {
		return false
	}
	return f.Code == other.Code
}

// ShowResolutionFor returns the resolution string for raw, or the
// unknown-resolution string if raw is not a Fault or carries none.
func ShowResolutionFor(raw error) string {
	fmtStr := "%s: code = %d resolution = %q"

	f, ok := errors.Cause(raw).(*Fault)
	if !ok {
		return fmt.Sprintf(fmtStr, UnknownDomainStr, code.Unknown, ResolutionUnknown)
	}
	if f.Resolution == ResolutionEmpty {
		return fmt.Sprintf(fmtStr, sanitizeDomain(f.Domain), f.Code, ResolutionUnknown)
	}
	return fmt.Sprintf(fmtStr, sanitizeDomain(f.Domain), f.Code, f.Resolution)
}

// HasResolution reports whether raw carries a Fault with a resolution.
func HasResolution(raw error) bool {
	f, ok := errors.Cause(raw).(*Fault)
	if !ok || f.Resolution == ResolutionEmpty {
		return false
	}
	return true
}
